package router

import (
	"net/http"

	apphttp "codemasters_backend/internal/http"
	"codemasters_backend/platform/httpkit"
	"codemasters_backend/platform/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New builds the gin engine: shared middleware, health and metrics, module
// routes and the static site fallback.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = false
	if err := engine.SetTrustedProxies(app.Config.GetTrustedProxies()); err != nil {
		app.Logger.Error("invalid trusted proxies; forwarding headers ignored", "error", err)
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(metrics.Middleware())
	engine.Use(cors.New(corsConfig(app.Config)))
	engine.Use(httpkit.BodyLimit(app.Config.GetMaxBodyBytes()))

	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	engine.GET("/api/health", healthHandler(app))

	ctx := &apphttp.RouterContext{
		Engine:            engine,
		API:               engine.Group("/api"),
		AdminMiddleware:   httpkit.SharedSecretRequired(app.Config, app.Logger),
		SubmissionLimiter: httpkit.RateLimit(app.Limiter, app.Logger),
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Debug("module routes registered", "module", module.Name())
	}

	engine.NoRoute(staticFallback(app.Config.GetStaticDir()))

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.RequestIDHeader},
		ExposeHeaders:    []string{httpkit.RequestIDHeader, "Content-Disposition", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"},
		AllowCredentials: false,
	}
	if cfg.GetCORSAllowAll() || len(cfg.GetCORSOrigins()) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return corsCfg
}

type healthResponse struct {
	Status string `json:"status"`
	Mongo  string `json:"mongo"`
	Sheets string `json:"sheets"`
}

func healthHandler(app *apphttp.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := healthResponse{Status: "ok", Mongo: "disabled", Sheets: "disabled"}

		if app.Health != nil && app.Health.Enabled() {
			resp.Mongo = "up"
			if err := app.Health.Ping(c.Request.Context()); err != nil {
				app.Logger.WithContext(c.Request.Context()).Warn("mongo health check failed", "error", err)
				resp.Mongo = "down"
			}
		}
		if app.SheetsEnabled {
			resp.Sheets = "enabled"
		}

		httpkit.OK(c, resp)
	}
}
