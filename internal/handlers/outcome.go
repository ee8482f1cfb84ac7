package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/savf/gatekeeper-bot/internal/models"
	"github.com/savf/gatekeeper-bot/internal/services"
)

type OutcomeHandler struct {
	outcomeService *services.OutcomeService
}

func NewOutcomeHandler(outcomeService *services.OutcomeService) *OutcomeHandler {
	return &OutcomeHandler{outcomeService: outcomeService}
}

type ChallengeOutcome = models.ChallengeOutcome

// ListOutcomes godoc
// @Summary      List challenge outcomes
// @Description  Audit log of finished challenges, newest first
// @Tags         outcomes
// @Produce      json
// @Security     BearerAuth
// @Param        member_id query int    false "Filter by member"
// @Param        outcome   query string false "approved, rejected, expired or superseded"
// @Param        limit     query int    false "Page size (max 500)"
// @Success      200 {array}  ChallengeOutcome
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /api/v1/outcomes [get]
func (h *OutcomeHandler) ListOutcomes(c *gin.Context) {
	var f services.OutcomeFilter
	if raw := c.Query("member_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid member_id"})
			return
		}
		f.MemberID = id
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		f.Limit = n
	}
	switch outcome := c.Query("outcome"); outcome {
	case "", "approved", "rejected", "expired", "superseded":
		f.Outcome = outcome
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid outcome"})
		return
	}

	rows, err := h.outcomeService.List(c.Request.Context(), f)
	if errors.Is(err, services.ErrAuditDisabled) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load outcomes"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
