package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeNotifySendToUser(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &NativeNotifyClient{
		AppID:    42,
		AppToken: "token-42",
		Endpoint: server.URL,
		HTTP:     server.Client(),
	}

	err := client.SendToUser(context.Background(), "sub-1", "You Have An Invite!", "Dinner at 8")
	require.NoError(t, err)

	assert.Equal(t, float64(42), got["appId"])
	assert.Equal(t, "token-42", got["appToken"])
	assert.Equal(t, "sub-1", got["subID"])
	assert.Equal(t, "You Have An Invite!", got["title"])
	assert.Equal(t, "Dinner at 8", got["message"])
}

func TestNativeNotifyRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad app token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := &NativeNotifyClient{Endpoint: server.URL, HTTP: server.Client()}

	err := client.SendToUser(context.Background(), "sub-1", "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
