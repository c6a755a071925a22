package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/ngooning-backend/internal/domain"
	httpH "github.com/yungbote/ngooning-backend/internal/http/handlers"
	httpMW "github.com/yungbote/ngooning-backend/internal/http/middleware"
	"github.com/yungbote/ngooning-backend/internal/platform/apierr"
	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/platform/supabase"
	"github.com/yungbote/ngooning-backend/internal/services"
)

type staticVerifier struct{}

func (staticVerifier) Verify(_ context.Context, token string) (*ctxutil.AuthUser, error) {
	if token != "good" {
		return nil, supabase.ErrInvalidToken
	}
	return &ctxutil.AuthUser{ID: "6f1c7f7e-0000-4000-8000-000000000001"}, nil
}

// missingGroups answers every group lookup with not found.
type missingGroups struct {
	services.SocialService
}

func (missingGroups) GetGroup(dbctx.Context, uuid.UUID) (*services.GroupDetail, error) {
	return nil, apierr.NotFound("group_not_found", "group not found")
}

func (missingGroups) ListGroups(dbctx.Context, int, int) ([]*types.Group, error) {
	return []*types.Group{}, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	social := missingGroups{}
	return NewRouter(RouterConfig{
		Log:            logger.Nop(),
		AuthMiddleware: httpMW.NewAuthMiddleware(logger.Nop(), staticVerifier{}),
		HealthHandler:  httpH.NewHealthHandler(),
		GroupHandler:   httpH.NewGroupHandler(social),
	})
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterPublicEndpoints(t *testing.T) {
	r := testRouter()

	w := serve(r, http.MethodGet, "/healthcheck", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterRequiresAuth(t *testing.T) {
	r := testRouter()

	w := serve(r, http.MethodGet, "/api/groups", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/api/groups", "good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"groups":[]}`, w.Body.String())
}

func TestRouterMapsServiceErrors(t *testing.T) {
	r := testRouter()

	w := serve(r, http.MethodGet, "/api/groups/"+uuid.NewString(), "good")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "group_not_found"))

	w = serve(r, http.MethodGet, "/api/groups/not-a-uuid", "good")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
