package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/platform/envutil"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

// Metrics holds the process-wide prometheus collectors. Every method is safe
// on a nil receiver so callers never branch on whether metrics are wired.
type Metrics struct {
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec
	llmCost     *prometheus.CounterVec

	fallbacks       *prometheus.CounterVec
	realtimeDropped *prometheus.CounterVec

	pgStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the metrics registered by Init, or nil before Init runs.
func Current() *Metrics {
	return instance
}

// Init registers collectors with the default registry once per process.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = &Metrics{
			apiRequests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests by method/route/status.",
			}, []string{"method", "route", "status"}),
			apiLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds by method/route/status.",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			}, []string{"method", "route", "status"}),
			apiInflight: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "http_inflight_requests",
				Help: "In-flight HTTP requests.",
			}),
			llmRequests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Completion/transcription API calls by model/endpoint/status.",
			}, []string{"model", "endpoint", "status"}),
			llmLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Completion/transcription API latency in seconds.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40, 90, 180},
			}, []string{"model", "endpoint", "status"}),
			llmTokens: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Tokens reported by the completion API by model/kind.",
			}, []string{"model", "kind"}),
			llmCost: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_cost_usd_total",
				Help: "Estimated completion spend in USD by operation.",
			}, []string{"operation"}),
			fallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "companion_fallbacks_total",
				Help: "Upstream failures masked with a static reply, by operation.",
			}, []string{"operation"}),
			realtimeDropped: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "realtime_messages_dropped_total",
				Help: "Realtime messages dropped because a client buffer was full.",
			}, []string{"event"}),
			pgStats: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Name: "postgres_pool_stats",
				Help: "database/sql pool statistics by stat.",
			}, []string{"stat"}),
			redisUp: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "redis_up",
				Help: "1 when the last redis ping succeeded.",
			}),
			redisPing: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "redis_ping_seconds",
				Help: "Latency of the last redis ping.",
			}),
		}
		if log != nil {
			log.Info("metrics registered")
		}
	})
	return instance
}

// Handler serves the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func scrapeInterval() time.Duration {
	n := envutil.Int("METRICS_SCRAPE_INTERVAL_SECONDS", 10)
	if n <= 0 {
		n = 10
	}
	return time.Duration(n) * time.Second
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveLLMRequest records one upstream API call. status is the HTTP status
// code, or "error" when the call never produced one.
func (m *Metrics) ObserveLLMRequest(model, endpoint, status string, dur time.Duration, promptTokens, completionTokens int) {
	if m == nil {
		return
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = "unknown"
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.llmRequests.WithLabelValues(model, endpoint, status).Inc()
	if dur > 0 {
		m.llmLatency.WithLabelValues(model, endpoint, status).Observe(dur.Seconds())
	}
	if promptTokens > 0 {
		m.llmTokens.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.llmTokens.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
}

func (m *Metrics) AddLLMCost(operation string, usd float64) {
	if m == nil || usd <= 0 {
		return
	}
	m.llmCost.WithLabelValues(operation).Add(usd)
}

func (m *Metrics) IncFallback(operation string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncRealtimeDropped(event string) {
	if m == nil {
		return
	}
	if event == "" {
		event = "unknown"
	}
	m.realtimeDropped.WithLabelValues(event).Inc()
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: postgres stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.pgStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.pgStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.pgStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.pgStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

// StatusLabel renders an HTTP status for metric labels.
func StatusLabel(code int) string {
	if code <= 0 {
		return "error"
	}
	return strconv.Itoa(code)
}
