package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

type TwilioSender struct {
	client     *http.Client
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
}

type twilioResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func NewTwilioSender(client *http.Client, accountSID, authToken, fromNumber string) *TwilioSender {
	return &TwilioSender{
		client:     client,
		baseURL:    twilioAPIBase,
		accountSID: strings.TrimSpace(accountSID),
		authToken:  strings.TrimSpace(authToken),
		fromNumber: strings.TrimSpace(fromNumber),
	}
}

func (t *TwilioSender) Name() string {
	return "twilio"
}

// Send posts a message to the Twilio Messages endpoint and returns the SID.
func (t *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post twilio message: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var parsed twilioResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("twilio status %d: %s", resp.StatusCode, string(raw))
		}
		return "", fmt.Errorf("decode twilio response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed.ErrorMessage != "" {
			return "", fmt.Errorf("twilio status %d: %s", resp.StatusCode, parsed.ErrorMessage)
		}
		return "", fmt.Errorf("twilio status %d: %s", resp.StatusCode, string(raw))
	}

	if parsed.SID == "" {
		return "", fmt.Errorf("twilio response missing sid: %s", string(raw))
	}

	return parsed.SID, nil
}
