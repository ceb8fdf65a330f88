package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/SarvaniBalivada/sports-schedular/internal/api/middleware"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/request"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/response"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/session"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	sessionService *session.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *session.Service) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.CreateSessionRequest
	if !decode(w, r, &req) {
		return
	}

	seeds := make([]model.UserID, 0, len(req.Players))
	for _, id := range req.Players {
		seeds = append(seeds, model.UserID(id))
	}

	created, err := h.sessionService.CreateSession(r.Context(), identity.UserID, model.NewSession{
		SportID:     model.SportID(req.SportID),
		DateTime:    req.DateTime,
		Venue:       req.Venue,
		MaxPlayers:  req.MaxPlayers,
		SeedPlayers: seeds,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.CreatedSessionFromModel(created))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.sessionService.ListSessions)
}

// ListMine handles GET /api/v1/sessions/mine
func (h *SessionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.sessionService.ListMySessions)
}

// ListJoined handles GET /api/v1/sessions/joined
func (h *SessionHandler) ListJoined(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.sessionService.ListJoinedSessions)
}

type listFunc func(ctx context.Context, requester model.UserID) ([]model.SessionView, error)

func (h *SessionHandler) writeList(w http.ResponseWriter, r *http.Request, list listFunc) {
	identity := middleware.MustGetIdentity(r.Context())

	views, err := list(r.Context(), identity.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.SessionsFromViews(views))
}

// Join handles POST /api/v1/sessions/{id}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	team, err := h.sessionService.JoinSession(r.Context(), identity.UserID, model.SessionID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.JoinResponse{
		Message: "Successfully joined session",
		Team:    int(team),
	})
}

// Cancel handles POST /api/v1/sessions/{id}/cancel
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	// The reason is optional, so an empty body is accepted
	var req request.CancelSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.sessionService.CancelSession(r.Context(), identity.UserID, model.SessionID(id), req.Reason); err != nil {
		WriteError(w, err)
		return
	}

	response.Message(w, "Session cancelled successfully")
}
