package httpapi

import (
	"encoding/json"
	"net/http"

	"adaptlearn-backend-go/internal/services"
)

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	account, err := services.GetAccount(s.DB, CurrentUsername(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]*AccountDTO{"user": buildAccountDTO(account)})
}

func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	username := CurrentUsername(r)
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "New password must be at least 6 characters")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		WriteError(w, http.StatusBadRequest, "Password confirmation does not match")
		return
	}
	account, err := services.GetAccount(s.DB, username)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !s.Tokens.VerifyPassword(req.CurrentPassword, account.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	hash, err := s.Tokens.HashPassword(req.NewPassword)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := services.UpdatePassword(s.DB, username, hash); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := services.DeleteAccount(s.DB, CurrentUsername(r)); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
