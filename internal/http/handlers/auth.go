package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"server/internal/domain"
	"server/internal/middleware"
)

const tokenTTL = 24 * time.Hour

// Login authenticates an admin user and issues a session token.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := a.Users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		a.fail(w, err, "login failed")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		a.error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := middleware.SignJWT(a.Cfg.JWTSecret, middleware.TokenClaims{
		Sub:      user.ID,
		Username: user.Username,
		Role:     user.Role,
		Exp:      time.Now().Add(tokenTTL).Unix(),
		Issuer:   "sportspulse",
	})
	if err != nil {
		a.fail(w, err, "login failed")
		return
	}

	if err := a.Users.TouchLastLogin(r.Context(), user.ID); err != nil {
		a.Logger.Warn().Err(err).Str("user_id", user.ID).Msg("last login update failed")
	}

	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Verify confirms the bearer token is still valid and that the account
// behind it still exists, so revoked admins cannot ride out old tokens.
func (a *App) Verify(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := a.Users.GetByID(r.Context(), claims.Sub)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		a.fail(w, err, "verification failed")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}
