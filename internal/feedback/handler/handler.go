package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback/service"
)

type feedbackHandler struct {
	svc service.Service
}

// RegisterPublicRoutes mounts POST /api/feedback. mw runs before the handler,
// which is where main plugs the rate limiter.
func RegisterPublicRoutes(r gin.IRouter, svc service.Service, mw ...gin.HandlerFunc) {
	h := &feedbackHandler{svc: svc}
	chain := append(append([]gin.HandlerFunc{}, mw...), h.create)
	r.POST("/api/feedback", chain...)
}

// RegisterAdminRoutes mounts the feedback dashboard endpoints on an admin
// group (already guarded by the caller).
func RegisterAdminRoutes(r gin.IRouter, svc service.Service) {
	h := &feedbackHandler{svc: svc}
	r.GET("/feedbacks", h.list)
	r.DELETE("/feedbacks/:id", h.delete)
}

func (h *feedbackHandler) create(c *gin.Context) {
	var req feedback.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(apperr.Validation("Invalid request body"))
		return
	}
	f, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *feedbackHandler) list(c *gin.Context) {
	views, err := h.svc.ListForAdmin(c.Request.Context(), c.Query("poemId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *feedbackHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
