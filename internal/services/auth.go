package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yungbote/ngooning-backend/internal/platform/apierr"
	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/httpx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/platform/supabase"
)

// AuthService wraps the managed auth API. Session-bound calls take the token
// from the request data set by the auth middleware.
type AuthService interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*supabase.Session, error)
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	OAuthURL(provider string) (string, error)
	ResetPassword(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
	UpdatePassword(ctx context.Context, password string) (*ctxutil.AuthUser, error)
	UpdateProfile(ctx context.Context, metadata map[string]any) (*ctxutil.AuthUser, error)
}

type authService struct {
	log    *logger.Logger
	client supabase.Client
	appURL string
}

func NewAuthService(log *logger.Logger, client supabase.Client, appURL string) AuthService {
	return &authService{
		log:    log.With("service", "AuthService"),
		client: client,
		appURL: strings.TrimRight(strings.TrimSpace(appURL), "/"),
	}
}

func (as *authService) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*supabase.Session, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}
	sess, err := as.client.SignUp(ctx, email, password, metadata)
	if err != nil {
		return nil, as.upstream(ctx, "signup", err)
	}
	return sess, nil
}

func (as *authService) SignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}
	sess, err := as.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, as.upstream(ctx, "signin", err)
	}
	return sess, nil
}

func (as *authService) OAuthURL(provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !supabase.OAuthProviders[provider] {
		return "", apierr.BadRequest("invalid_provider", "unsupported oauth provider %q", provider)
	}
	return as.client.AuthorizeURL(provider, as.appURL+"/auth/callback")
}

func (as *authService) ResetPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return apierr.BadRequest("invalid_email", "a valid email is required")
	}
	if err := as.client.ResetPasswordForEmail(ctx, email, as.appURL+"/auth/reset-password"); err != nil {
		return as.upstream(ctx, "reset_password", err)
	}
	return nil
}

func (as *authService) SignOut(ctx context.Context) error {
	token, err := sessionToken(ctx)
	if err != nil {
		return err
	}
	if err := as.client.SignOut(ctx, token); err != nil {
		return as.upstream(ctx, "signout", err)
	}
	return nil
}

func (as *authService) UpdatePassword(ctx context.Context, password string) (*ctxutil.AuthUser, error) {
	if strings.TrimSpace(password) == "" {
		return nil, apierr.BadRequest("invalid_password", "password is required")
	}
	token, err := sessionToken(ctx)
	if err != nil {
		return nil, err
	}
	u, err := as.client.UpdateUser(ctx, token, supabase.UserAttributes{Password: password})
	if err != nil {
		return nil, as.upstream(ctx, "update_password", err)
	}
	return u, nil
}

func (as *authService) UpdateProfile(ctx context.Context, metadata map[string]any) (*ctxutil.AuthUser, error) {
	if len(metadata) == 0 {
		return nil, apierr.BadRequest("invalid_profile", "no profile fields supplied")
	}
	token, err := sessionToken(ctx)
	if err != nil {
		return nil, err
	}
	u, err := as.client.UpdateUser(ctx, token, supabase.UserAttributes{Data: metadata})
	if err != nil {
		return nil, as.upstream(ctx, "update_profile", err)
	}
	return u, nil
}

// upstream maps auth API failures: client errors pass through with their
// status, everything else becomes a 502.
func (as *authService) upstream(ctx context.Context, op string, err error) error {
	status := httpx.StatusCode(err)
	msg := "authentication service unavailable"
	var he *supabase.HTTPError
	if errors.As(err, &he) && he.Message != "" {
		msg = he.Message
	}
	switch {
	case status == http.StatusTooManyRequests:
		return apierr.New(status, "auth_rate_limited", errors.New(msg))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apierr.New(http.StatusUnauthorized, "auth_rejected", errors.New(msg))
	case status >= 400 && status < 500:
		return apierr.New(http.StatusBadRequest, "auth_rejected", errors.New(msg))
	}
	as.log.Error("Auth API call failed", append(ctxutil.LogFields(ctx), "operation", op, "error", err)...)
	return apierr.New(http.StatusBadGateway, "auth_unavailable", errors.New(msg))
}

func validateCredentials(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return "", apierr.BadRequest("invalid_email", "a valid email is required")
	}
	if password == "" {
		return "", apierr.BadRequest("invalid_password", "password is required")
	}
	return email, nil
}

func sessionToken(ctx context.Context) (string, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return "", errUnauthorized
	}
	return rd.TokenString, nil
}
