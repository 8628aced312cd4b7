package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/draganv/speedwatch-backend-go/internal/models"
	"github.com/draganv/speedwatch-backend-go/internal/service"
	"github.com/draganv/speedwatch-backend-go/pkg/response"
)

// ViolationHandler handles HTTP requests for trip violation checks.
type ViolationHandler struct {
	service *service.ViolationService
}

// NewViolationHandler creates a new violation handler
func NewViolationHandler(service *service.ViolationService) *ViolationHandler {
	return &ViolationHandler{service: service}
}

// CheckTrip handles POST /api/v1/trips/:id/violations
// Body: a telemetry document; optional ?threshold= overrides the default
// violation margin. Returns the trip's timeline document.
func (h *ViolationHandler) CheckTrip(c *gin.Context) {
	id := c.Param("id")

	var doc models.TelemetryDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.BadRequest(c, "Invalid telemetry document")
		return
	}

	var threshold *float64
	if raw := c.Query("threshold"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil || t < 0 {
			response.BadRequest(c, "Invalid threshold")
			return
		}
		threshold = &t
	}

	// A document without the samples field yields an empty timeline, not an
	// error; the warning mirrors the batch path.
	if doc.DynamicMetadata == nil {
		log.Printf("[ViolationHandler] Warning: no dynamicMetadata found in trip %s", id)
	}

	timeline, err := h.service.CheckTrip(id, doc.DynamicMetadata, threshold)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to check trip")
		return
	}

	response.Success(c, timeline)
}
