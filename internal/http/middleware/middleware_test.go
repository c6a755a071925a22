package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/platform/supabase"
)

const testSecret = "super-secret-jwt-token-for-tests"

func signToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":           sub,
		"aud":           "authenticated",
		"exp":           exp.Unix(),
		"email":         "sam@example.com",
		"user_metadata": map[string]any{"full_name": "Sam Rivera"},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), supabase.NewTokenVerifier(nil, testSecret))
	r := gin.New()
	r.GET("/private", am.RequireAuth(), func(c *gin.Context) {
		u := ctxutil.CurrentUser(c.Request.Context())
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "name": u.DisplayName(), "token": rd.TokenString != ""})
	})
	return r
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	r := authRouter()
	id := uuid.NewString()
	tok := signToken(t, id, time.Now().Add(time.Hour))

	for name, req := range map[string]*http.Request{
		"header": func() *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			return req
		}(),
		"query": httptest.NewRequest(http.MethodGet, "/private?access_token="+tok, nil),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
			}
			var body map[string]any
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
			if body["id"] != id || body["name"] != "Sam Rivera" || body["token"] != true {
				t.Fatalf("unexpected body: %v", body)
			}
		})
	}
}

func TestRequireAuthRejects(t *testing.T) {
	r := authRouter()
	cases := map[string]string{
		"missing": "",
		"garbage": "Bearer not-a-jwt",
		"expired": "Bearer " + signToken(t, uuid.NewString(), time.Now().Add(-time.Minute)),
		"basic":   "Basic dXNlcjpwYXNz",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d", rec.Code)
			}
			if rec.Body.String() != `{"error":"Unauthorized"}` {
				t.Fatalf("unexpected body: %s", rec.Body.String())
			}
		})
	}
}

func TestRecoveryReturnsGenericError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(logger.Nop()))
	r.GET("/boom", func(c *gin.Context) { panic("nil map write") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"Internal server error"}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAttachTraceContextPropagatesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "req-123" || rec.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("request id not propagated: body=%q header=%q", rec.Body.String(), rec.Header().Get("X-Request-Id"))
	}
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Fatalf("expected generated trace id")
	}
}

func TestRateLimitFailsOpenWhenRedisUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	r := gin.New()
	r.Use(RateLimit(logger.Nop(), rdb, "chat", 1))
	r.GET("/chat", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: got %d", i, rec.Code)
		}
	}
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(logger.Nop(), nil, "chat", 5))
	r.GET("/chat", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	if rec.Code != http.StatusNoContent || rec.Header().Get("X-RateLimit-Limit") != "" {
		t.Fatalf("disabled limiter should be a no-op: code=%d", rec.Code)
	}
}
