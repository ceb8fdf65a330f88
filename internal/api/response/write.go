package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON body with the given status
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// OK writes a 200 JSON response
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 JSON response for a newly stored resource
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// Message writes a 200 response carrying only a confirmation message
func Message(w http.ResponseWriter, msg string) {
	OK(w, MessageResponse{Message: msg})
}

// NoContent writes a 204 response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
