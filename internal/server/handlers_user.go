package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/stockcast/internal/common"
	"github.com/bobmcallan/stockcast/internal/models"
)

// passwordBytes truncates to bcrypt's 72-byte input limit.
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}

// authenticate resolves the bearer token to a subject, writing a 401 when
// the request carries no valid session. Returns ("", false) on failure.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		WriteError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	subject, err := s.app.Sessions.VerifySession(r.Context(), token)
	if err != nil {
		WriteServiceError(w, err)
		return "", false
	}
	return subject, true
}

// handleUserRegister handles POST /api/users/register — create an account.
func (s *Server) handleUserRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Email == "" {
		WriteError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		WriteError(w, http.StatusBadRequest, "password is required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(req.Password), 10)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := &models.UserRecord{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.app.Storage.CredentialStore().CreateUser(r.Context(), user); err != nil {
		s.logger.Info().Err(err).Str("email", req.Email).Msg("Registration rejected")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"email": user.Email,
		"name":  user.Name,
	})
}

// handleUserLogin handles POST /api/users/login — authenticate and issue a
// session token. Unknown email and wrong password produce the identical
// response.
func (s *Server) handleUserLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.app.Storage.CredentialStore().GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		// A store outage is not a credential failure.
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error().Err(err).Msg("Credential lookup failed")
			WriteServiceError(w, err)
			return
		}
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes(req.Password)); err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.app.Sessions.IssueSession(r.Context(), user.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to issue session")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// handleProfile handles GET /api/users/profile.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	subject, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	user, err := s.app.Storage.CredentialStore().GetUserByEmail(r.Context(), subject)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"email":      user.Email,
		"name":       user.Name,
		"created_at": user.CreatedAt.Format(time.RFC3339),
	})
}

// handleProfileUpdate handles POST /api/users/profile/update.
func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	subject, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.app.Storage.CredentialStore().UpdateUserName(r.Context(), subject, req.Name); err != nil {
		s.logger.Error().Err(err).Str("email", subject).Msg("Failed to update profile")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"email": subject,
		"name":  req.Name,
	})
}

// handleAuthLogout handles POST /api/auth/logout — drop the mirrored
// session so the outstanding token stops verifying.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	subject, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	if err := s.app.Sessions.RevokeSession(r.Context(), subject); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "logged out",
	})
}

// handleUserBuy handles POST /api/users/buy.
func (s *Server) handleUserBuy(w http.ResponseWriter, r *http.Request) {
	s.handleUserTrade(w, r, models.ActionBuy)
}

// handleUserSell handles POST /api/users/sell.
func (s *Server) handleUserSell(w http.ResponseWriter, r *http.Request) {
	s.handleUserTrade(w, r, models.ActionSell)
}

// handleUserTrade records a buy or sell. The request body is stored
// verbatim under the stamped operation; the endpoint takes no session.
func (s *Server) handleUserTrade(w http.ResponseWriter, r *http.Request, operation string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	fields := make(map[string]any)
	if !DecodeJSON(w, r, &fields) {
		return
	}

	txn := &models.TransactionRecord{
		Operation: operation,
		Fields:    fields,
	}
	if err := s.app.Quotes.StoreTransaction(r.Context(), txn); err != nil {
		s.logger.Error().Err(err).Str("operation", operation).Msg("Failed to store transaction")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"transaction_id": txn.TransactionID,
		"operation":      operation,
	})
}
