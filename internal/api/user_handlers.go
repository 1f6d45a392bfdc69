package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/riadims/boardGame-rental/internal/auth"
	"github.com/riadims/boardGame-rental/internal/database"

	_ "github.com/riadims/boardGame-rental/internal/models"
)

// @Summary      Get current user profile
// @Description  Retrieves the profile of the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {string}  string "Unauthorized"
// @Failure      404  {string}  string "User not found"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve user data", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// @Summary      Update current user profile
// @Description  Updates the username and/or email of the currently authenticated user. Password changes go through the dedicated password endpoint.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        updateProfileRequest  body      UpdateProfileRequest  true  "Fields to update"
// @Success      200  {object}  models.User
// @Failure      400  {string}  string "Invalid request body"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      409  {string}  string "Username or email already in use"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [patch]
func (s *Server) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == nil && req.Email == nil {
		http.Error(w, "No update operation specified (provide 'username' or 'email')", http.StatusBadRequest)
		return
	}

	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		if trimmed == "" {
			http.Error(w, "Username cannot be empty", http.StatusBadRequest)
			return
		}
		req.Username = &trimmed
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		if trimmed == "" {
			http.Error(w, "Email cannot be empty", http.StatusBadRequest)
			return
		}
		req.Email = &trimmed
	}

	user, err := s.store.UpdateUserProfile(r.Context(), database.UpdateUserProfileParams{
		ID:       claims.UserID,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) || errors.Is(err, database.ErrUsernameTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if errors.Is(err, database.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// @Summary      Change password
// @Description  Changes the password of the currently authenticated user after verifying the current one. The new password is hashed explicitly before it is stored.
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        changePasswordRequest  body      ChangePasswordRequest  true  "Current and new password"
// @Success      204  {null}    nil "No Content"
// @Failure      400  {string}  string "Invalid request body or incorrect current password"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me/password [put]
func (s *Server) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.NewPassword == "" {
		http.Error(w, "New password is required", http.StatusBadRequest)
		return
	}

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		http.Error(w, "Current password is incorrect", http.StatusBadRequest)
		return
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.store.UpdateUserPassword(r.Context(), claims.UserID, newHash); err != nil {
		log.Printf("ERROR: Nie udało się zmienić hasła użytkownika %d: %v", claims.UserID, err)
		http.Error(w, "Failed to change password", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Delete current user account
// @Description  Deletes the account of the currently authenticated user together with their games and sessions.
// @Tags         users
// @Security     BearerAuth
// @Success      204  {null}    nil "No Content"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [delete]
func (s *Server) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	deleted, err := s.store.DeleteUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      List all usernames
// @Description  Returns the usernames of all registered users. Used by the frontend to display game owners and borrowers.
// @Tags         users
// @Produce      json
// @Success      200  {array}   string
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /users/usernames [get]
func (s *Server) ListUsernamesHandler(w http.ResponseWriter, r *http.Request) {
	usernames, err := s.store.ListUsernames(r.Context())
	if err != nil {
		http.Error(w, "Failed to list usernames", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(usernames)
}
