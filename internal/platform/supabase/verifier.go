package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenVerifier resolves a session token to the user it belongs to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*ctxutil.AuthUser, error)
}

// NewTokenVerifier verifies locally when a JWT secret is configured and asks
// the auth API otherwise.
func NewTokenVerifier(c Client, jwtSecret string) TokenVerifier {
	if s := strings.TrimSpace(jwtSecret); s != "" {
		return &jwtVerifier{secret: []byte(s)}
	}
	return &remoteVerifier{client: c}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email        string               `json:"email,omitempty"`
	Phone        string               `json:"phone,omitempty"`
	UserMetadata ctxutil.UserMetadata `json:"user_metadata"`
	AppMetadata  ctxutil.AppMetadata  `json:"app_metadata"`
}

type jwtVerifier struct {
	secret []byte
}

func (v *jwtVerifier) Verify(ctx context.Context, token string) (*ctxutil.AuthUser, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience("authenticated"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return &ctxutil.AuthUser{
		ID:           claims.Subject,
		Email:        claims.Email,
		Phone:        claims.Phone,
		UserMetadata: claims.UserMetadata,
		AppMetadata:  claims.AppMetadata,
	}, nil
}

type remoteVerifier struct {
	client Client
}

func (v *remoteVerifier) Verify(ctx context.Context, token string) (*ctxutil.AuthUser, error) {
	if strings.TrimSpace(token) == "" || v.client == nil {
		return nil, ErrInvalidToken
	}
	u, err := v.client.GetUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return u, nil
}
