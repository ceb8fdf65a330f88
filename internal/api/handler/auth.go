package handler

import (
	"net/http"

	"github.com/SarvaniBalivada/sports-schedular/internal/api/middleware"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/request"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/response"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/auth"
)

// AuthHandler handles account endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	if req.Email == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Signup(r.Context(), req.Name, req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.AuthResponseFromSession(session))
}

// Signin handles POST /api/v1/auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req request.SigninRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("email and password are required"))
		return
	}

	session, err := h.authService.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.AuthResponseFromSession(session))
}

// Signout handles POST /api/v1/auth/signout
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Signout(r.Context(), middleware.GetToken(r.Context())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	user, err := h.authService.GetUser(r.Context(), identity.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.UserFromModel(user))
}

// UpdateProfile handles PUT /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.ProfileRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), identity.UserID, auth.ProfileUpdate{
		Name:            req.Name,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.UserFromModel(user))
}
