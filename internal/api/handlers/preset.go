package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mifi/goclip/internal/models"
	"github.com/mifi/goclip/internal/services"
)

// PresetHandler exposes saved cut-range Presets over HTTP.
type PresetHandler struct {
	services *services.Services
	logger   *zap.Logger
}

// NewPresetHandler constructs a PresetHandler.
func NewPresetHandler(services *services.Services, logger *zap.Logger) *PresetHandler {
	return &PresetHandler{services: services, logger: logger}
}

// List returns saved presets, optionally filtered to a single input
// file via the ?input= query parameter.
func (h *PresetHandler) List(c *gin.Context) {
	input := c.Query("input")

	var (
		presets []*models.Preset
		err     error
	)
	if input != "" {
		presets, err = h.services.Preset.ListByInput(input)
	} else {
		presets, err = h.services.Preset.List()
	}
	if err != nil {
		h.logger.Error("failed to list presets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, presets)
}

// Create saves a new preset.
func (h *PresetHandler) Create(c *gin.Context) {
	var preset models.Preset
	if err := c.ShouldBindJSON(&preset); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.services.Preset.Create(preset)
	if err != nil {
		h.logger.Error("failed to create preset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// Delete removes a saved preset.
func (h *PresetHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.services.Preset.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "preset deleted"})
}
