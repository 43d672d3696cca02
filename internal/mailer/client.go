// Package mailer talks to the HTTP email relay used for delay alerts and
// scheduled reports. The relay does the actual SMTP delivery; this client
// only posts pre-rendered HTML. No retries: delivery failures surface to the
// caller unchanged.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the email relay client.
type Client struct {
	endpoint   string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewClient creates a relay client. A zero timeout falls back to 30s.
func NewClient(endpoint, apiKey, from string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type sendRequest struct {
	From       string   `json:"from,omitempty"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Message    string   `json:"message"`
}

type sendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Send posts one HTML email to the relay.
func (c *Client) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	payload := sendRequest{
		From:       c.from,
		Recipients: recipients,
		Subject:    subject,
		Message:    htmlBody,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read email response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email relay returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result sendResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("decode email response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("email relay rejected message: %s", result.Error)
	}

	return nil
}
