package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/legastream/legastream/internal/auth"
	"github.com/legastream/legastream/internal/mailer"
	"github.com/legastream/legastream/internal/models"
)

type AuthHandler struct {
	users  *auth.UserService
	issuer *auth.TokenIssuer
	mail   *mailer.Mailer
}

func NewAuthHandler(users *auth.UserService, issuer *auth.TokenIssuer, mail *mailer.Mailer) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, mail: mail}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msgs := req.ValidationErrors(); len(msgs) > 0 {
		writeErrors(w, http.StatusUnprocessableEntity, msgs)
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusUnprocessableEntity, "Email has already been taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	if mailErr := h.mail.SendEmailConfirmation(user.Email, user.ConfirmationToken); mailErr != nil {
		slog.Error("failed to send confirmation email", "error", mailErr)
	}

	writeJSON(w, http.StatusCreated, authResponse(token, user))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	writeJSON(w, http.StatusOK, authResponse(token, user))
}

// ForgotPassword always answers 200 so the endpoint can't be used to
// probe which emails have accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.users.CreateResetToken(r.Context(), req.Email)
	if err == nil {
		if mailErr := h.mail.SendPasswordReset(user.Email, token); mailErr != nil {
			slog.Error("failed to send reset email", "error", mailErr)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If the email exists, a reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Password) < auth.MinPasswordLength {
		writeError(w, http.StatusUnprocessableEntity, "Password must be at least 6 characters")
		return
	}

	if err := h.users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, http.StatusUnprocessableEntity, "Reset token is invalid or expired")
			return
		}
		writeError(w, http.StatusInternalServerError, "password reset failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset"})
}

func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "token required")
		return
	}

	if _, err := h.users.ConfirmEmail(r.Context(), token); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Confirmation token is invalid")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Email confirmed"})
}

func authResponse(token string, user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
		},
	}
}
