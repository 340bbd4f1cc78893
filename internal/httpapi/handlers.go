// Package httpapi exposes the Lifecycle Coordinator's seven transitions as
// a gin REST surface, using a per-endpoint handler struct and
// ShouldBindJSON pattern.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/duelcore/matchcore/internal/coordinator"
	"github.com/duelcore/matchcore/internal/httpapi/middleware"
	apierr "github.com/duelcore/matchcore/pkg/errors"
	"github.com/duelcore/matchcore/pkg/httpx"
	"github.com/duelcore/matchcore/pkg/logging"
)

// Handler adapts HTTP requests onto Coordinator calls.
type Handler struct {
	coordinator *coordinator.Coordinator
	logger      logging.Logger
}

// NewHandler builds the match lifecycle HTTP handler.
func NewHandler(c *coordinator.Coordinator, logger logging.Logger) *Handler {
	return &Handler{coordinator: c, logger: logger}
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpx.Error(c, apierr.Validation("invalid request body: "+err.Error()))
		return false
	}
	return true
}

// Invite handles POST /matches/invite.
func (h *Handler) Invite(c *gin.Context) {
	var req InviteRequest
	if !h.bind(c, &req) {
		return
	}

	interactionID, err := h.coordinator.Invite(c.Request.Context(), req.Challenger, req.Target)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, "invite sent", gin.H{"interactionId": interactionID})
}

// Accept handles POST /matches/accept.
func (h *Handler) Accept(c *gin.Context) {
	var req InteractionRequest
	if !h.bind(c, &req) {
		return
	}

	matchID, err := h.coordinator.Accept(c.Request.Context(), req.InteractionID, req.Challenger, req.Opponent)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, "match started", gin.H{"matchId": matchID})
}

// Decline handles POST /matches/decline.
func (h *Handler) Decline(c *gin.Context) {
	var req InteractionRequest
	if !h.bind(c, &req) {
		return
	}

	caller, _ := middleware.CallerHandle(c)
	if err := h.coordinator.Decline(c.Request.Context(), caller, req.InteractionID, req.Challenger, req.Opponent); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, "interaction declined", nil)
}

// Cancel handles POST /matches/cancel.
func (h *Handler) Cancel(c *gin.Context) {
	var req InteractionRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.coordinator.Cancel(c.Request.Context(), req.InteractionID, req.Challenger, req.Opponent); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, "interaction cancelled", nil)
}

// Report handles POST /matches/report.
func (h *Handler) Report(c *gin.Context) {
	var req ReportRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.coordinator.Report(c.Request.Context(), req.MatchID, req.Reporter, req.ClaimedWinner); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, "report recorded", nil)
}

// Confirm handles POST /matches/confirm.
func (h *Handler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if !h.bind(c, &req) {
		return
	}

	outcome, err := h.coordinator.Confirm(c.Request.Context(), req.MatchID, req.Confirmer, req.ClaimedWinner)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, outcome, gin.H{"result": outcome})
}

// Rematch handles POST /matches/rematch.
func (h *Handler) Rematch(c *gin.Context) {
	var req RematchRequest
	if !h.bind(c, &req) {
		return
	}

	newMatchID, err := h.coordinator.Rematch(c.Request.Context(), req.MatchID, req.Responder, req.Accept)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, "rematch resolved", gin.H{"matchId": newMatchID})
}
