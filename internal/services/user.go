package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ngooning-backend/internal/data/repos"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/apierr"
	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

type UserService interface {
	// GetMe returns the caller's profile, creating it from the auth identity on first use.
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdateMe(dbc dbctx.Context, in UpdateProfileInput) (*types.User, error)
}

// UpdateProfileInput carries only the fields the caller sent.
type UpdateProfileInput struct {
	Username          *string `json:"username"`
	FullName          *string `json:"full_name"`
	Avatar            *string `json:"avatar"`
	RecoveryStartDate *string `json:"recovery_start_date"`
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), userRepo: userRepo}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	id, err := currentUserID(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	u, err := us.userRepo.GetByID(dbc, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repos.ErrNotFound) {
		return nil, err
	}

	auth := ctxutil.CurrentUser(dbc.Ctx)
	created, err := us.userRepo.Create(dbc, userFromIdentity(auth))
	if errors.Is(err, repos.ErrConflict) {
		// Another request created the row first.
		if u, gErr := us.userRepo.GetByID(dbc, id); gErr == nil {
			return u, nil
		}
	}
	if err != nil {
		return nil, repoError(err, "user")
	}
	us.log.Info("Created user profile from auth identity", "user_id", created.ID)
	return created, nil
}

func (us *userService) UpdateMe(dbc dbctx.Context, in UpdateProfileInput) (*types.User, error) {
	updates := map[string]any{}
	if in.Username != nil {
		if name := strings.TrimSpace(*in.Username); name == "" {
			updates["username"] = nil
		} else {
			updates["username"] = name
		}
	}
	if in.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*in.FullName)
	}
	if in.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*in.Avatar)
	}
	if in.RecoveryStartDate != nil {
		raw := strings.TrimSpace(*in.RecoveryStartDate)
		if raw == "" {
			updates["recovery_start_date"] = nil
		} else {
			t, err := parseDate(raw)
			if err != nil {
				return nil, apierr.BadRequest("invalid_recovery_start_date", "recovery_start_date must be YYYY-MM-DD or RFC 3339")
			}
			updates["recovery_start_date"] = t
		}
	}
	if len(updates) == 0 {
		return nil, apierr.BadRequest("invalid_profile", "no profile fields supplied")
	}

	me, err := us.GetMe(dbc)
	if err != nil {
		return nil, err
	}
	u, err := us.userRepo.Update(dbc, me.ID, updates)
	if err != nil {
		return nil, repoError(err, "user")
	}
	return u, nil
}

func userFromIdentity(auth *ctxutil.AuthUser) *types.User {
	u := &types.User{
		Email:    auth.Email,
		FullName: strings.TrimSpace(auth.UserMetadata.FullName),
		Avatar:   strings.TrimSpace(auth.UserMetadata.AvatarURL),
		Provider: auth.AppMetadata.Provider,
	}
	u.ID, _ = uuid.Parse(auth.ID)
	if name := strings.TrimSpace(auth.UserMetadata.Username); name != "" {
		u.Username = &name
	}
	if u.Provider == "" {
		u.Provider = "email"
	}
	return u
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
