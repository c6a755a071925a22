package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

// OAuthProviders lists the providers the app offers for social sign-in.
var OAuthProviders = map[string]bool{"google": true, "github": true, "apple": true}

// Client talks to the managed auth REST API (/auth/v1).
type Client interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	AuthorizeURL(provider, redirectTo string) (string, error)
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	SignOut(ctx context.Context, accessToken string) error
	UpdateUser(ctx context.Context, accessToken string, attrs UserAttributes) (*ctxutil.AuthUser, error)
	GetUser(ctx context.Context, accessToken string) (*ctxutil.AuthUser, error)
}

type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Session is a token grant. Sign-up without auto-confirm yields only User.
type Session struct {
	AccessToken  string            `json:"access_token,omitempty"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	ExpiresIn    int               `json:"expires_in,omitempty"`
	TokenType    string            `json:"token_type,omitempty"`
	User         *ctxutil.AuthUser `json:"user,omitempty"`
}

type UserAttributes struct {
	Password string         `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// HTTPError is a non-2xx reply from the auth API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("auth http %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type client struct {
	log        *logger.Logger
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, fmt.Errorf("missing SUPABASE_URL")
	}
	if strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, fmt.Errorf("missing SUPABASE_ANON_KEY")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &client{
		log:        log.With("service", "SupabaseAuthClient"),
		baseURL:    base,
		anonKey:    strings.TrimSpace(cfg.AnonKey),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	body := map[string]any{"email": email, "password": password}
	if len(metadata) > 0 {
		body["data"] = metadata
	}
	raw, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body)
	if err != nil {
		return nil, err
	}
	return decodeSession(raw)
}

func (c *client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return decodeSession(raw)
}

func (c *client) AuthorizeURL(provider, redirectTo string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !OAuthProviders[provider] {
		return "", fmt.Errorf("unsupported oauth provider %q", provider)
	}
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/auth/v1/authorize?" + q.Encode(), nil
}

func (c *client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	_, err := c.do(ctx, http.MethodPost, path, "", map[string]any{"email": email})
	return err
}

func (c *client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil)
	return err
}

func (c *client) UpdateUser(ctx context.Context, accessToken string, attrs UserAttributes) (*ctxutil.AuthUser, error) {
	raw, err := c.do(ctx, http.MethodPut, "/auth/v1/user", accessToken, attrs)
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

func (c *client) GetUser(ctx context.Context, accessToken string) (*ctxutil.AuthUser, error) {
	raw, err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil)
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

func (c *client) do(ctx context.Context, method, path, bearer string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		herr := &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
		c.log.Debug("auth api error", "path", strings.SplitN(path, "?", 2)[0], "status", resp.StatusCode)
		return nil, herr
	}
	return raw, nil
}

// errorMessage pulls the human message out of the auth API's error shapes.
func errorMessage(raw []byte) string {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, s := range []string{payload.ErrorDescription, payload.Msg, payload.Message, payload.Error} {
			if strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return "request failed"
}

func decodeSession(raw []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.User == nil {
		u, err := decodeUser(raw)
		if err != nil {
			return nil, err
		}
		s.User = u
	}
	return &s, nil
}

func decodeUser(raw []byte) (*ctxutil.AuthUser, error) {
	var u ctxutil.AuthUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if strings.TrimSpace(u.ID) == "" {
		return nil, errors.New("auth response missing user id")
	}
	return &u, nil
}
