package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/storage"
	"github.com/poetbyte/poetbyte/backend/go-services/pkg/logger"
)

// Exporter writes a snapshot of the site data.
type Exporter interface {
	Export(ctx context.Context) (*storage.Result, error)
}

// RegisterSnapshotRoutes mounts POST /snapshots on an admin group.
func RegisterSnapshotRoutes(r gin.IRouter, exp Exporter) {
	r.POST("/snapshots", func(c *gin.Context) {
		res, err := exp.Export(c.Request.Context())
		if err != nil {
			_ = c.Error(apperr.Store("Failed to export snapshot", err))
			return
		}
		logger.Infof("snapshot exported to %s", res.Key)
		c.JSON(http.StatusCreated, res)
	})
}
