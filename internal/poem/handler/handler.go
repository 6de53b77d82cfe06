package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem/service"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/logger"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/metrics"
)

// Options tunes read behaviour.
type Options struct {
	// DegradeReadsToEmpty answers list/get with [] / {} instead of a 500
	// when the store fails. Validation and not-found still surface.
	DegradeReadsToEmpty bool
}

type poemHandler struct {
	svc  service.Service
	opts Options
}

// RegisterPoemRoutes mounts /api/poems on r. Errors are attached with c.Error
// and rendered by middleware.ErrorHandler.
func RegisterPoemRoutes(r gin.IRouter, svc service.Service, opts Options) {
	h := &poemHandler{svc: svc, opts: opts}
	r.GET("/api/poems", h.list)
	r.POST("/api/poems", h.create)
	r.GET("/api/poems/:id", h.get)
	r.PATCH("/api/poems/:id", h.update)
	r.DELETE("/api/poems/:id", h.delete)
}

func (h *poemHandler) degrade(c *gin.Context, err error, empty interface{}) bool {
	if !h.opts.DegradeReadsToEmpty {
		return false
	}
	if apperr.Is(err, apperr.KindValidation) || apperr.Is(err, apperr.KindNotFound) {
		return false
	}
	logger.Warnf("store read failed, answering empty payload: %v", err)
	metrics.DegradedReads.WithLabelValues("poems").Inc()
	c.JSON(http.StatusOK, empty)
	return true
}

func (h *poemHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		if h.degrade(c, err, []*poem.Poem{}) {
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *poemHandler) create(c *gin.Context) {
	var req poem.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(apperr.Validation("Invalid request body"))
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *poemHandler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if h.degrade(c, err, gin.H{}) {
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *poemHandler) update(c *gin.Context) {
	if _, err := poem.ParseID(c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	var req poem.Patch
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(apperr.Validation("Invalid request body"))
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *poemHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
