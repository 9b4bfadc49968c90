// Package authapi is the client of the remote authentication and user
// management API.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

// Client calls the auth API. Outbound calls are throttled but never
// deduplicated or retried.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Client {
	limit := rate.Inf
	if cfg.AuthAPI.RateLimit > 0 {
		limit = rate.Limit(cfg.AuthAPI.RateLimit)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.AuthAPI.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.AuthAPI.Timeout},
		limiter: rate.NewLimiter(limit, max(cfg.AuthAPI.Burst, 1)),
		log:     log,
	}
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	in := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", "", in, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, u model.NewUser) error {
	return c.do(ctx, http.MethodPost, "/users", token, u, http.StatusCreated, nil)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]model.UserRecord, error) {
	var users []model.UserRecord
	if err := c.do(ctx, http.MethodGet, "/users", token, nil, http.StatusOK, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, username string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(username), token, nil, 0, nil)
}

// do sends one request. want is the expected status; 0 accepts any 2xx.
func (c *Client) do(ctx context.Context, method, path, token string, in any, want int, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode == want
	if want == 0 {
		ok = resp.StatusCode >= 200 && resp.StatusCode < 300
	}
	if !ok {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.log.Debug("auth api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
