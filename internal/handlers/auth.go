package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
	"github.com/xelth-com/eckwms-mondialrelay/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles user login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if r.db == nil {
		respondError(w, http.StatusServiceUnavailable, "Database not available")
		return
	}

	// 1. Find User
	var user models.UserAuth
	if err := r.db.WithContext(req.Context()).Where("email = ? AND is_active = ?", loginReq.Email, true).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 2. Check Password
	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		r.db.Model(&user).Update("failed_login_attempts", user.FailedLoginAttempts+1)
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 3. Update Last Login
	now := time.Now()
	r.db.Model(&user).Updates(map[string]interface{}{
		"last_login":            &now,
		"failed_login_attempts": 0,
	})

	// 4. Generate Tokens
	accessToken, refreshToken, err := utils.GenerateTokens(&user, r.secret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	})
}
