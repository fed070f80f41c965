// Package http holds the pieces the router is assembled from: the module
// contract and the composed application.
package http

import (
	"context"

	"jobboard_backend/platform/config"
	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is a feature area that mounts its own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is handed to every module during registration.
type RouterContext struct {
	// V1 is the rate limited /api/v1 group.
	V1 *gin.RouterGroup
}

// HealthChecker is anything the readiness probe can ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is populated by the composition root and passed to the router.
type App struct {
	Config config.HTTPConfig
	Logger *logger.Logger
	// Health is pinged in order by /api/ready: the pool, then Redis when enabled.
	Health []HealthChecker
	// RateLimiter guards /api/v1; nil disables rate limiting.
	RateLimiter *httpkit.IPRateLimiter
	Modules     []Module
}
