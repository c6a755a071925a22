package ctxutil

import (
	"context"
	"strings"
)

type requestDataKey struct{}

// UserMetadata mirrors the profile fields the auth service keeps on a user.
type UserMetadata struct {
	FullName  string `json:"full_name,omitempty"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type AppMetadata struct {
	Provider string `json:"provider,omitempty"`
}

// AuthUser is the caller identity resolved from a session token.
type AuthUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
	AppMetadata  AppMetadata  `json:"app_metadata"`
}

// DisplayName prefers the full name and falls back to the username.
func (u *AuthUser) DisplayName() string {
	if u == nil {
		return ""
	}
	if n := strings.TrimSpace(u.UserMetadata.FullName); n != "" {
		return n
	}
	return strings.TrimSpace(u.UserMetadata.Username)
}

type RequestData struct {
	TokenString string
	User        *AuthUser
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(ctx context.Context) *AuthUser {
	rd := GetRequestData(ctx)
	if rd == nil || rd.User == nil || rd.User.ID == "" {
		return nil
	}
	return rd.User
}
