package handler

import (
	"net/http"

	"github.com/SarvaniBalivada/sports-schedular/internal/api/middleware"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/request"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/response"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/sport"
)

// SportHandler handles sport endpoints
type SportHandler struct {
	sportService *sport.Service
}

// NewSportHandler creates a new sport handler
func NewSportHandler(sportService *sport.Service) *SportHandler {
	return &SportHandler{sportService: sportService}
}

// List handles GET /api/v1/sports
func (h *SportHandler) List(w http.ResponseWriter, r *http.Request) {
	sports, err := h.sportService.ListSports(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.SportsFromModel(sports))
}

// Create handles POST /api/v1/sports
func (h *SportHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.CreateSportRequest
	if !decode(w, r, &req) {
		return
	}

	created, err := h.sportService.CreateSport(r.Context(), identity, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.SportFromModel(created))
}
