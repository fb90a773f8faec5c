package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezapp/marketplace-service/internal/database"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Mall     string `json:"mallLastFetch,omitempty"`
	Cash     string `json:"cashStoreLastFetch,omitempty"`
}

// HealthCheck reports service liveness plus spool database reachability and
// when each screen last committed a snapshot.
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status: "ok",
	}

	if database.Pool() != nil {
		if err := database.Status(c.Request.Context()); err != nil {
			response.Database = "disconnected"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response.Database = "connected"
	} else {
		response.Database = "not configured"
	}

	if t := h.mall.LastFetch(); !t.IsZero() {
		response.Mall = t.UTC().Format(time.RFC3339)
	}
	if t := h.cashStore.LastFetch(); !t.IsZero() {
		response.Cash = t.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, response)
}
