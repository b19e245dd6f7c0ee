package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"pairplan_server/services"
)

// S3Controller handles presigned-URL generation for profile avatars. The
// storage key of a completed upload is persisted on the profile so clients
// never have to track keys themselves.
type S3Controller struct {
	AccountService *services.AccountService
}

// NewS3Controller creates a new instance of S3Controller
func NewS3Controller(accountService *services.AccountService) *S3Controller {
	return &S3Controller{AccountService: accountService}
}

// GenerateAvatarUploadURL generates a presigned URL for avatar uploads
func (c *S3Controller) GenerateAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.FileName == "" || payload.FileType == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	url, key, err := services.GenerateAvatarUploadURL(CallerID(r), payload.FileName, payload.FileType)
	if err != nil {
		log.Printf("Error generating pre-signed URL: %v", err)
		http.Error(w, "Failed to generate pre-signed URL", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url, "key": key})
}

// ConfirmAvatarUpload records the uploaded object's key on the caller's
// profile, making it the avatar served to both partners.
func (c *S3Controller) ConfirmAvatarUpload(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := c.AccountService.UpdateAvatarKey(r.Context(), CallerID(r), payload.Key); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Avatar updated"})
}

// GetAvatarReadURL generates a presigned URL for reading a stored avatar. An
// omitted key falls back to the caller's own stored avatar.
func (c *S3Controller) GetAvatarReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	key := payload.Key
	if key == "" {
		profile, err := c.AccountService.CurrentUser(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, err)
			return
		}
		if profile.AvatarKey == "" {
			http.Error(w, "No avatar on record", http.StatusNotFound)
			return
		}
		key = profile.AvatarKey
	}

	url, err := services.GenerateAvatarReadURL(key)
	if err != nil {
		http.Error(w, "Failed to generate read pre-signed URL", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
