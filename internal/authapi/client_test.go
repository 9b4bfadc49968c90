package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.AuthAPI.BaseURL = srv.URL + "/"
	cfg.AuthAPI.Timeout = 5 * time.Second
	return New(cfg, zap.NewNop())
}

func TestLogin(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["username"] != "alice" || in["password"] != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid username or password"})
			return
		}
		writeJSON(w, http.StatusOK, LoginResponse{Message: "ok", Token: "tok", Role: "manager"})
	})
	c := newTestClient(t, r)

	resp, err := c.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "manager", resp.Role)

	_, err = c.Login(context.Background(), "alice", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid username or password", Message(err))
	assert.False(t, IsTokenExpired(err))
}

func TestUsers(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	var deleted string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer good" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": MsgTokenExpired})
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/users", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []model.UserRecord{{Username: "alice", Role: "manager"}, {Username: "bob", Role: "user"}})
	})
	r.Post("/users", func(w http.ResponseWriter, r *http.Request) {
		var u model.NewUser
		_ = json.NewDecoder(r.Body).Decode(&u)
		if u.Username == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "username required"})
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	r.Delete("/users/{username}", func(w http.ResponseWriter, r *http.Request) {
		deleted = chi.URLParam(r, "username")
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	users, err := c.ListUsers(ctx, "good")
	require.NoError(err)
	assert.Len(users, 2)
	assert.Equal("bob", users[1].Username)

	require.NoError(c.CreateUser(ctx, "good", model.NewUser{Username: "carol", Password: "x", Role: "user"}))

	err = c.CreateUser(ctx, "good", model.NewUser{})
	assert.Equal("username required", Message(err))

	require.NoError(c.DeleteUser(ctx, "good", "dave smith"))
	assert.Equal("dave smith", deleted)

	_, err = c.ListUsers(ctx, "stale")
	assert.True(IsTokenExpired(err))
}

func TestListUsersTimestampForms(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"username":"alice","role":"manager","createdAt":"2023-01-02T03:04:05.000Z"},
			{"username":"bob","role":"user","inResidence":true,"lastChanged":{"seconds":1700000000,"nanoseconds":0}},
			{"username":"carol","role":"user","lastLogin":{"_seconds":1700000000,"_nanoseconds":0}}
		]`))
	}))

	users, err := c.ListUsers(context.Background(), "good")
	require.NoError(t, err)
	require.Len(t, users, 3)

	want := time.Unix(1700000000, 0)
	require.NotNil(t, users[1].LastChanged)
	assert.True(t, want.Equal(users[1].LastChanged.Time))
	require.NotNil(t, users[2].LastLogin)
	assert.True(t, want.Equal(users[2].LastLogin.Time))
	require.NotNil(t, users[0].CreatedAt)
	assert.Equal(t, 2023, users[0].CreatedAt.Year())
	assert.Nil(t, users[0].LastChanged)
}

func TestErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.ListUsers(context.Background(), "good")
	assert.Equal(t, "Bad Gateway", Message(err))
}

func TestTransportError(t *testing.T) {
	cfg := config.Default()
	cfg.AuthAPI.BaseURL = "http://127.0.0.1:1"
	c := New(cfg, zap.NewNop())

	_, err := c.Login(context.Background(), "a", "b")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
