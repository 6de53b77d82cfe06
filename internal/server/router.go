// Package server assembles the HTTP API from its resources and runs it.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poetbyte/poetbyte/backend/go-services/handlers"
	feedbackhandler "github.com/poetbyte/poetbyte/backend/go-services/internal/feedback/handler"
	feedbackservice "github.com/poetbyte/poetbyte/backend/go-services/internal/feedback/service"
	poemhandler "github.com/poetbyte/poetbyte/backend/go-services/internal/poem/handler"
	poemservice "github.com/poetbyte/poetbyte/backend/go-services/internal/poem/service"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/logger"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/middleware"
)

// Deps are the collaborators the router is built from. Nil optional fields
// leave the matching feature out.
type Deps struct {
	Poems    poemservice.Service
	Feedback feedbackservice.Service
	Reads    poemhandler.Options

	// FeedbackLimiter guards POST /api/feedback.
	FeedbackLimiter gin.HandlerFunc
	// AdminAuth guards /api/admin. Nil leaves the admin routes open.
	AdminAuth gin.HandlerFunc
	// Exporter enables POST /api/admin/snapshots.
	Exporter handlers.Exporter

	Checks      map[string]handlers.Check
	CORSOrigins []string
	Metrics     http.Handler
}

// NewRouter wires the middleware stack and every route.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestMetrics(),
		gin.Recovery(),
		middleware.CORS(d.CORSOrigins),
		middleware.ErrorHandler(),
	)

	handlers.RegisterHealth(r, d.Checks)
	handlers.RegisterSwagger(r)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	poemhandler.RegisterPoemRoutes(r, d.Poems, d.Reads)

	var limit []gin.HandlerFunc
	if d.FeedbackLimiter != nil {
		limit = append(limit, d.FeedbackLimiter)
	}
	feedbackhandler.RegisterPublicRoutes(r, d.Feedback, limit...)

	admin := r.Group("/api/admin")
	if d.AdminAuth != nil {
		admin.Use(d.AdminAuth)
	} else {
		logger.Warn("admin routes are not protected: configure KEYCLOAK_URL or ADMIN_JWT_SECRET")
	}
	feedbackhandler.RegisterAdminRoutes(admin, d.Feedback)
	if d.Exporter != nil {
		handlers.RegisterSnapshotRoutes(admin, d.Exporter)
	}
	return r
}
