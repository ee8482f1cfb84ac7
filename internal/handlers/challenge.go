package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
)

type ChallengeHandler struct {
	store *gatekeeper.Store
	now   func() time.Time
}

func NewChallengeHandler(store *gatekeeper.Store, now func() time.Time) *ChallengeHandler {
	if now == nil {
		now = time.Now
	}
	return &ChallengeHandler{store: store, now: now}
}

type ChallengeView struct {
	gatekeeper.Record
	RemainingSeconds int `json:"remaining_seconds,omitempty"`
}

type ChallengeListResponse struct {
	Pending []ChallengeView `json:"pending"`
	Count   int             `json:"count"`
}

func (h *ChallengeHandler) view(rec gatekeeper.Record) ChallengeView {
	v := ChallengeView{Record: rec}
	if rec.State == gatekeeper.StatePending {
		if left := rec.Deadline.Sub(h.now()); left > 0 {
			v.RemainingSeconds = int(left.Round(time.Second) / time.Second)
		}
	}
	return v
}

// ListChallenges godoc
// @Summary      List pending challenges
// @Description  Members currently restricted and waiting to answer, oldest first
// @Tags         challenges
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ChallengeListResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/challenges [get]
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	pending := h.store.Pending()
	views := make([]ChallengeView, 0, len(pending))
	for _, rec := range pending {
		views = append(views, h.view(rec))
	}
	c.JSON(http.StatusOK, ChallengeListResponse{Pending: views, Count: len(views)})
}

// GetChallenge godoc
// @Summary      Get a member's challenge
// @Description  The pending challenge of a member, or its latest outcome while still cached
// @Tags         challenges
// @Produce      json
// @Security     BearerAuth
// @Param        member_id path int true "Member ID"
// @Success      200 {object} ChallengeView
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/challenges/{member_id} [get]
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("member_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid member id"})
		return
	}

	if rec, ok := h.store.Get(memberID); ok {
		c.JSON(http.StatusOK, h.view(rec))
		return
	}
	if rec, ok := h.store.Recent(memberID); ok {
		c.JSON(http.StatusOK, h.view(rec))
		return
	}
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "no challenge for member"})
}
