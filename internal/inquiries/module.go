// Package inquiries captures contact-form inquiries and serves the admin
// listing and CSV export.
package inquiries

import (
	apphttp "codemasters_backend/internal/http"
	"codemasters_backend/internal/inquiries/handler"
	"codemasters_backend/internal/inquiries/service"
	"codemasters_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Module is the inquiries bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the inquiries module.
func NewModule(svc *service.Service, val *validator.Validator) *Module {
	return &Module{
		handler: handler.New(svc, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "inquiries"
}

// RegisterRoutes mounts the submission and admin routes at the site root and
// under /api for the bundled front-end.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.POST("/inquiry-submission", ctx.SubmissionLimiter, m.handler.Submit)
	ctx.API.POST("/inquiry", ctx.SubmissionLimiter, m.handler.Submit)

	for _, admin := range []*gin.RouterGroup{ctx.Engine.Group("/admin"), ctx.API.Group("/admin")} {
		admin.Use(ctx.AdminMiddleware)
		admin.GET("/inquiries", m.handler.List)
		admin.GET("/inquiries.csv", m.handler.Export)
	}
}

var _ apphttp.Module = (*Module)(nil)
