package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	errExpired      = errors.New("token expired")
)

// Claims are the fields the auth API embeds in its bearer tokens.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Decoder turns a raw bearer token into a session. When no secret is
// configured the signature is not checked; the auth API owns the key.
type Decoder struct {
	secret []byte
	now    func() time.Time
}

func NewDecoder(cfg *config.Config) *Decoder {
	return &Decoder{
		secret: []byte(cfg.Token.Secret),
		now:    time.Now,
	}
}

func (d *Decoder) Decode(raw string) (model.Session, error) {
	claims := &Claims{}

	var err error
	if len(d.secret) > 0 {
		_, err = jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return d.secret, nil
		}, jwt.WithTimeFunc(d.now))
	} else {
		_, _, err = jwt.NewParser().ParseUnverified(raw, claims)
		if err == nil && claims.ExpiresAt != nil && !d.now().Before(claims.ExpiresAt.Time) {
			err = errExpired
		}
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	s := model.Session{
		Token:    raw,
		Role:     model.ParseRole(claims.Role),
		Username: claims.Username,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
