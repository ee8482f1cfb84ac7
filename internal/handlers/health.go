package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
)

type HealthHandler struct {
	machine *gatekeeper.Machine
}

func NewHealthHandler(machine *gatekeeper.Machine) *HealthHandler {
	return &HealthHandler{machine: machine}
}

type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Pending int    `json:"pending"`
	Timers  int    `json:"timers"`
}

// Health godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /healthz [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Pending: h.machine.Store().Len(),
		Timers:  h.machine.Timers().Len(),
	})
}
