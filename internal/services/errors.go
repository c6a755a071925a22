package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/ngooning-backend/internal/data/repos"
	"github.com/yungbote/ngooning-backend/internal/platform/apierr"
	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
)

var errUnauthorized = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("Unauthorized"))

// currentUserID reads the session user placed on ctx by the auth middleware.
func currentUserID(ctx context.Context) (uuid.UUID, error) {
	u := ctxutil.CurrentUser(ctx)
	if u == nil {
		return uuid.Nil, errUnauthorized
	}
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return uuid.Nil, errUnauthorized
	}
	return id, nil
}

// repoError turns repo sentinels into caller-visible errors; anything else is returned as is.
func repoError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repos.ErrNotFound):
		return apierr.NotFound(what+"_not_found", "%s not found", what)
	case errors.Is(err, repos.ErrConflict):
		return apierr.New(http.StatusConflict, what+"_conflict", fmt.Errorf("%s already exists", what))
	case errors.Is(err, repos.ErrInvalidReference):
		return apierr.BadRequest("invalid_reference", "%s references a missing record", what)
	}
	return err
}
