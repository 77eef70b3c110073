// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"codemasters_backend/platform/config"
	"codemasters_backend/platform/httpkit"
	"codemasters_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.AdminConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and admin settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health reports document store reachability.
	Health HealthChecker
	// SheetsEnabled reports whether the spreadsheet sink is configured.
	SheetsEnabled bool
	// Limiter throttles submissions (Redis-backed or in-process).
	Limiter httpkit.Limiter
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
