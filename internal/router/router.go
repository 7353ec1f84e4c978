package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doccompare/internal/auth"
	"doccompare/internal/handler"
	"doccompare/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Analysis  *handler.AnalysisHandler
	Rule      *handler.RuleHandler
	Group     *handler.GroupHandler
	Document  *handler.DocumentHandler
	Session   *handler.SessionHandler
	RemoteSet *handler.RemoteSetHandler
	Health    *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	verifier auth.TokenVerifier,
	h *Handlers,
	metricsHandler http.Handler,
	allowedOrigins []string,
	accessLogMinStatus int,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(accessLogMinStatus))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// Protected routes - require a valid identity token
	protected := r.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(verifier))

	protected.POST("/analyses", h.Analysis.Analyze)

	rules := protected.Group("/rules")
	rules.GET("", h.Rule.List)
	rules.POST("", h.Rule.Create)
	rules.GET("/:id", h.Rule.GetByID)
	rules.PUT("/:id", h.Rule.Update)
	rules.DELETE("/:id", h.Rule.Delete)

	groups := protected.Group("/document-groups")
	groups.GET("", h.Group.List)
	groups.POST("", h.Group.Create)
	groups.GET("/:id", h.Group.GetByID)
	groups.PUT("/:id", h.Group.Update)
	groups.DELETE("/:id", h.Group.Delete)
	groups.GET("/:id/documents", h.Group.ListDocuments)

	documents := protected.Group("/documents")
	documents.POST("/upload", h.Document.Upload)
	documents.DELETE("/:id", h.Document.Delete)

	sessions := protected.Group("/sessions")
	sessions.GET("", h.Session.List)
	sessions.GET("/export", h.Session.ExportCSV)
	sessions.GET("/:id", h.Session.GetByID)
	sessions.GET("/:id/export", h.Session.ExportXLSX)

	remoteSets := protected.Group("/remote-sets")
	remoteSets.GET("/history", h.RemoteSet.History)
	remoteSets.GET("/:id/documents", h.RemoteSet.ListDocuments)

	return r
}
