package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioSender envia SMS con la API Messages de Twilio.
type TwilioSender struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

func NewTwilioSender(baseURL, accountSID, authToken, from string) (*TwilioSender, error) {
	if strings.TrimSpace(accountSID) == "" || strings.TrimSpace(authToken) == "" {
		return nil, fmt.Errorf("twilio account sid and auth token are required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("twilio from number is required")
	}
	if baseURL == "" {
		baseURL = "https://api.twilio.com/2010-04-01"
	}
	return &TwilioSender{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (s *TwilioSender) SendOTP(ctx context.Context, phone string, code string, expiresAt time.Time) error {
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("phone is required")
	}

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", s.from)
	form.Set("Body", BuildOTPMessage(code, expiresAt))

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, url.PathEscape(s.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var te twilioError
		if json.Unmarshal(respBody, &te) == nil && te.Message != "" {
			return fmt.Errorf("twilio api error %d: %s", te.Code, te.Message)
		}
		return fmt.Errorf("twilio http error: status=%d", resp.StatusCode)
	}
	return nil
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
