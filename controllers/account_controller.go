package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"pairplan_server/services"
)

// AccountController handles registration, login, logout and the
// current-user lookup.
type AccountController struct {
	AccountService *services.AccountService
}

// NewAccountController creates a new instance of AccountController
func NewAccountController(accountService *services.AccountService) *AccountController {
	return &AccountController{AccountService: accountService}
}

func (c *AccountController) Register(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		FirstName       string `json:"firstName"`
		Surname         string `json:"surname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, session, err := c.AccountService.Register(r.Context(), request.Email, request.Password, request.ConfirmPassword, request.FirstName, request.Surname)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Printf("✅ Registered account %s", profile.UserID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"profile": profile,
		"session": session,
	})
}

func (c *AccountController) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, session, err := c.AccountService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"session": session,
	})
}

func (c *AccountController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.AccountService.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the caller's own profile.
func (c *AccountController) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := c.AccountService.CurrentUser(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ChangePassword replaces the caller's password after verifying the current
// one.
func (c *AccountController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var request struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := c.AccountService.ChangePassword(r.Context(), CallerID(r), request.CurrentPassword, request.NewPassword, request.ConfirmPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

// UpdateName changes the caller's display name.
func (c *AccountController) UpdateName(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FirstName string `json:"firstName"`
		Surname   string `json:"surname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, err := c.AccountService.UpdateName(r.Context(), CallerID(r), request.FirstName, request.Surname)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdatePushToken stores the caller's push subscriber id.
func (c *AccountController) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PushToken string `json:"pushToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := c.AccountService.UpdatePushToken(r.Context(), CallerID(r), request.PushToken); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Push token updated"})
}
