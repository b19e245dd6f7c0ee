package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pairplan_server/services"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheckHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	HealthCheckHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrValidation, http.StatusBadRequest},
		{services.ErrSelfLink, http.StatusBadRequest},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrNotRecipient, http.StatusForbidden},
		{services.ErrNotOwner, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrAlreadyLinked, http.StatusConflict},
		{services.ErrTerminal, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", services.ErrNotFound), http.StatusNotFound},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, statusForError(tc.err), "error: %v", tc.err)
	}
}

func TestWriteErrorHidesBackendDetails(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, fmt.Errorf("dynamodb exploded: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "dynamodb")
	assert.Contains(t, w.Body.String(), "Please try again")
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Bearer abc-123")
	assert.Equal(t, "abc-123", bearerToken(req))
}
