package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/logger"
)

type testHTTPConfig struct {
	origins []string
	dev     bool
}

func (c testHTTPConfig) GetHTTPAddr() string      { return ":0" }
func (c testHTTPConfig) GetCORSAllowAll() bool    { return len(c.origins) == 0 }
func (c testHTTPConfig) GetCORSOrigins() []string { return c.origins }
func (c testHTTPConfig) GetRateLimitRPS() float64 { return 1 }
func (c testHTTPConfig) GetRateLimitBurst() int   { return 1 }
func (c testHTTPConfig) IsDevelopment() bool      { return c.dev }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"pong": true}) })
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(cfg testHTTPConfig, checks ...apphttp.HealthChecker) *apphttp.App {
	return &apphttp.App{
		Config:  cfg,
		Logger:  logger.Discard(),
		Health:  checks,
		Modules: []apphttp.Module{pingModule{}},
	}
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	engine := New(newTestApp(testHTTPConfig{dev: true}, pinger{}))

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestReadinessFailsWhenDependencyIsDown(t *testing.T) {
	engine := New(newTestApp(testHTTPConfig{dev: true}, pinger{}, pinger{err: errors.New("redis down")}))

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestModulesMountUnderV1WithRequestID(t *testing.T) {
	engine := New(newTestApp(testHTTPConfig{dev: true}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set(httpkit.RequestIDHeader, "req-123")
	rec := serve(engine, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(httpkit.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	engine := New(newTestApp(testHTTPConfig{dev: true}))

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"route not found"}`, rec.Body.String())
}

func TestRateLimitAppliesToV1(t *testing.T) {
	app := newTestApp(testHTTPConfig{dev: true})
	app.RateLimiter = httpkit.NewIPRateLimiter(rate.Limit(0.001), 1, logger.Discard())
	engine := New(app)

	first := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	second := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	health := serve(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, http.StatusOK, health.Code, "probes are not rate limited")
}

func TestCORSRestrictsOrigins(t *testing.T) {
	engine := New(newTestApp(testHTTPConfig{dev: true, origins: []string{"https://jobs.example.com"}}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://jobs.example.com")
	rec := serve(engine, req)
	assert.Equal(t, "https://jobs.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = serve(engine, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
