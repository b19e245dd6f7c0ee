package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

const nativeNotifyURL = "https://app.nativenotify.com/api/indie/notification"

// PushSender dispatches a push notification to a single subscriber. Callers
// treat delivery as best-effort: failures are logged, never surfaced.
type PushSender interface {
	SendToUser(ctx context.Context, subID, title, message string) error
}

// NativeNotifyClient sends indie push notifications through the Native
// Notify HTTP API.
type NativeNotifyClient struct {
	AppID    int
	AppToken string
	Endpoint string
	HTTP     *http.Client
}

// NewNativeNotifyClientFromEnv reads NATIVE_NOTIFY_APP_ID and
// NATIVE_NOTIFY_APP_TOKEN. Missing credentials are a startup failure, not a
// runtime one.
func NewNativeNotifyClientFromEnv() (*NativeNotifyClient, error) {
	appID, err := strconv.Atoi(os.Getenv("NATIVE_NOTIFY_APP_ID"))
	if err != nil {
		return nil, fmt.Errorf("NATIVE_NOTIFY_APP_ID is missing or not a number: %w", err)
	}
	appToken := os.Getenv("NATIVE_NOTIFY_APP_TOKEN")
	if appToken == "" {
		return nil, fmt.Errorf("NATIVE_NOTIFY_APP_TOKEN is not set")
	}

	return &NativeNotifyClient{
		AppID:    appID,
		AppToken: appToken,
		Endpoint: nativeNotifyURL,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *NativeNotifyClient) SendToUser(ctx context.Context, subID, title, message string) error {
	body, err := json.Marshal(map[string]interface{}{
		"appId":    c.AppID,
		"appToken": c.AppToken,
		"subID":    subID,
		"title":    title,
		"message":  message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push rejected with status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
