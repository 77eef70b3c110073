// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import (
	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router group.
	// The RouterContext provides access to shared middleware and configuration.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
// This avoids passing many parameters to each module's RegisterRoutes method.
type RouterContext struct {
	// Engine is the root Gin engine for routes mounted at the site root.
	Engine *gin.Engine
	// API is the /api route group kept for the bundled front-end.
	API *gin.RouterGroup
	// AdminMiddleware guards admin routes with the shared secret.
	AdminMiddleware gin.HandlerFunc
	// SubmissionLimiter throttles public submissions per client.
	SubmissionLimiter gin.HandlerFunc
}
