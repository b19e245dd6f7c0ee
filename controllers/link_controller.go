package controllers

import (
	"encoding/json"
	"net/http"

	"pairplan_server/services"
)

// LinkController handles HTTP requests for the account-linking flow
type LinkController struct {
	LinkService *services.LinkService
}

// NewLinkController creates a new instance of LinkController
func NewLinkController(linkService *services.LinkService) *LinkController {
	return &LinkController{LinkService: linkService}
}

// Link connects the caller to the account holding the submitted share code.
func (c *LinkController) Link(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ShareCode string `json:"shareCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.LinkService.LinkAccounts(r.Context(), CallerID(r), request.ShareCode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Accounts linked successfully"})
}

// Unlink tears down the caller's partner connection. The partner is derived
// from the caller's own profile, never from the request.
func (c *LinkController) Unlink(w http.ResponseWriter, r *http.Request) {
	if err := c.LinkService.UnlinkAccounts(r.Context(), CallerID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Accounts unlinked successfully"})
}

// Partner returns the connected partner's profile snapshot, or connected:
// false when there is none.
func (c *LinkController) Partner(w http.ResponseWriter, r *http.Request) {
	partner, err := c.LinkService.FetchConnectedUser(r.Context(), CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if partner == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"connected": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"connected": true, "partner": partner})
}

// RegenerateShareCode rotates the caller's share code.
func (c *LinkController) RegenerateShareCode(w http.ResponseWriter, r *http.Request) {
	code, err := c.LinkService.RegenerateShareCode(r.Context(), CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"shareCode": code})
}
