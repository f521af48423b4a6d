package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status string `json:"status" example:"up"`
}

// @Summary      Health check
// @Description  Reports whether the database answers a ping.
// @Tags         system
// @Produce      json
// @Success      200  {object}  healthResponse
// @Failure      503  {object}  healthResponse
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	if err := h.services.Health.Ping(c.Request.Context()); err != nil {
		h.log.Errorw("health_db_unreachable", "err", err)
		c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "down"})
		return
	}
	c.JSON(http.StatusOK, healthResponse{Status: "up"})
}
