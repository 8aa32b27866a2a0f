package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"github.com/MrBreathe/mrbreathe/models"
	"github.com/MrBreathe/mrbreathe/models/counter"
	"github.com/MrBreathe/mrbreathe/models/user"
)

var manager = models.User()

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries the full set of per-field violations.
type ValidationErrorResponse struct {
	Error         string           `json:"error"`
	InvalidFields user.FieldErrors `json:"invalid_fields"`
}

// CreatedResponse returns the generated account identifier.
type CreatedResponse struct {
	ID string `json:"id"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeDomainError maps a domain error onto the HTTP taxonomy. Anything
// unexpected is logged in full and surfaced as a bare internal error.
func writeDomainError(w http.ResponseWriter, err error) {
	var fe user.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:         "One or more request fields are invalid",
			InvalidFields: fe,
		})
	case errors.Is(err, user.ErrEmailExists):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "User already exists"})
	case errors.Is(err, user.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "User does not exist"})
	default:
		log.WithError(err).Error("Unexpected error")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// CreateUser handles user registration: one account plus one profile, created
// together.
func CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req user.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	id, err := manager.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	counter.Incr(counter.Signup)
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id.String()})
}

// UpdateUser applies a sparse profile patch to the user identified by the
// email in the request body.
func UpdateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req user.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := manager.Update(r.Context(), req); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User updated successfully"})
}

// DeleteUser removes the user and its profile.
func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")

	if err := manager.Delete(r.Context(), email); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// ValidateCredentialsRequest represents a credential check request.
type ValidateCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateCredentialsResponse reports whether the credentials matched.
type ValidateCredentialsResponse struct {
	Valid bool `json:"valid"`
}

// ValidateCredentials compares the supplied password against the stored
// credential for the account.
func ValidateCredentials(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req ValidateCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	valid, err := manager.ValidateCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ValidateCredentialsResponse{Valid: valid})
}
