package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mifi/goclip/internal/core"
	"github.com/mifi/goclip/internal/models"
	"github.com/mifi/goclip/internal/services"
)

// ClipHandler exposes the clip/inspect/verify operations over HTTP.
type ClipHandler struct {
	services *services.Services
	logger   *zap.Logger
}

// NewClipHandler constructs a ClipHandler.
func NewClipHandler(services *services.Services, logger *zap.Logger) *ClipHandler {
	return &ClipHandler{services: services, logger: logger}
}

// Clip runs a clip operation synchronously and returns its OutputReport.
func (h *ClipHandler) Clip(c *gin.Context) {
	var req models.ClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.services.Clip.Clip(c.Request.Context(), req, nil)
	if err != nil {
		h.logger.Error("clip failed", zap.String("input", req.InputPath), zap.Error(err))
		c.JSON(statusForErr(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Submit starts an async clip job and returns its ID immediately, for
// callers that would rather poll than hold a connection open.
func (h *ClipHandler) Submit(c *gin.Context) {
	var req models.ClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.services.Clip.SubmitAsync(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, job)
}

// GetJob reports the status of a previously submitted clip job.
func (h *ClipHandler) GetJob(c *gin.Context) {
	id := c.Param("id")

	job, err := h.services.Clip.GetJob(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// Inspect probes a media file and returns its stream/GOP summary.
func (h *ClipHandler) Inspect(c *gin.Context) {
	var req models.InspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.services.Clip.Inspect(c.Request.Context(), h.services.Probe, req.Input, req.ShowKeyframes)
	if err != nil {
		h.logger.Error("inspect failed", zap.String("input", req.Input), zap.Error(err))
		c.JSON(statusForErr(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Verify re-checks an already-written output against the cut range and
// mode it was supposedly produced with.
func (h *ClipHandler) Verify(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.services.Clip.VerifyStandalone(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("verify failed", zap.String("output", req.OutputPath), zap.Error(err))
		c.JSON(statusForErr(err), gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}

// statusForErr maps a core.Error's Kind to the HTTP status the serve
// front end reports it as; every other error (including ones that
// never reached core, e.g. a failed preset lookup) falls through
// core.KindOf's InternalInvariant default, which maps to 500.
func statusForErr(err error) int {
	switch core.KindOf(err) {
	case core.InvalidArgument:
		return http.StatusBadRequest
	case core.FileNotFound, core.PermissionDenied:
		return http.StatusNotFound
	case core.CopyInfeasible:
		return http.StatusConflict
	case core.InsufficientKeyframes:
		return http.StatusUnprocessableEntity
	case core.Cancelled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}
