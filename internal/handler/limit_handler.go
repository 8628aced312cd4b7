package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/draganv/speedwatch-backend-go/internal/service"
	"github.com/draganv/speedwatch-backend-go/pkg/response"
)

// LimitHandler handles HTTP requests for speed-limit lookups.
type LimitHandler struct {
	service *service.ViolationService
}

// NewLimitHandler creates a new limit handler
func NewLimitHandler(service *service.ViolationService) *LimitHandler {
	return &LimitHandler{service: service}
}

// GetLimit handles GET /api/v1/limits?lat=&lon=
func (h *LimitHandler) GetLimit(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid lat")
		return
	}

	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid lon")
		return
	}

	info, err := h.service.ResolveLimit(lat, lon)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to resolve speed limit")
		return
	}

	if info == nil {
		response.NotFound(c, "No applicable speed limit")
		return
	}

	response.Success(c, info)
}
