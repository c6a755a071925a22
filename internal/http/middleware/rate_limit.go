package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

// Token bucket kept in a redis hash so every API instance shares one budget.
var rateLimitScript = goredis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'updated_at')
local tokens = tonumber(bucket[1])
local updated_at = tonumber(bucket[2])

if tokens == nil or updated_at == nil then
    tokens = capacity
    updated_at = now
end

local elapsed = math.max(0, now - updated_at)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
local retry_after = 0
if tokens >= requested then
    tokens = tokens - requested
    allowed = 1
else
    retry_after = (requested - tokens) / rate
end

redis.call('HSET', key, 'tokens', tokens, 'updated_at', now)
redis.call('EXPIRE', key, 86400)

return {allowed, math.floor(tokens), math.ceil(retry_after)}
`)

// RateLimit limits each signed-in user (or client IP) to qps requests per
// second with a burst of 2*qps. Redis errors let the request through.
func RateLimit(log *logger.Logger, rdb goredis.Scripter, scope string, qps int) gin.HandlerFunc {
	if rdb == nil || qps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	mwLog := log.With("middleware", "RateLimit", "scope", scope)
	capacity := 2 * qps
	return func(c *gin.Context) {
		subject := "ip:" + c.ClientIP()
		if u := ctxutil.CurrentUser(c.Request.Context()); u != nil {
			subject = "user:" + u.ID
		}
		key := "rate_limit:" + scope + ":" + subject
		now := float64(time.Now().UnixNano()) / 1e9

		result, err := rateLimitScript.Run(c.Request.Context(), rdb, []string{key}, capacity, qps, now, 1).Result()
		if err != nil {
			mwLog.Warn("Rate limiter unavailable; allowing request", "error", err)
			c.Next()
			return
		}

		allowed, remaining, retryAfter := int64(0), int64(capacity), int64(0)
		if arr, ok := result.([]any); ok && len(arr) >= 3 {
			if v, ok := arr[0].(int64); ok {
				allowed = v
			}
			if v, ok := arr[1].(int64); ok {
				remaining = v
			}
			if v, ok := arr[2].(int64); ok {
				retryAfter = v
			}
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(capacity))
		if allowed == 0 {
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please slow down",
				"code":  "rate_limited",
			})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Next()
	}
}
