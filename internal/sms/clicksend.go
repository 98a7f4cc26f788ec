package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ClickSendSender envia SMS usando la API REST v3 de ClickSend.
type ClickSendSender struct {
	baseURL  string
	username string
	apiKey   string
	from     string
	client   *http.Client
}

func NewClickSendSender(baseURL, username, apiKey, from string) (*ClickSendSender, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("clicksend username and api key are required")
	}
	if baseURL == "" {
		baseURL = "https://rest.clicksend.com/v3"
	}
	return &ClickSendSender{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		apiKey:   apiKey,
		from:     from,
		client:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (s *ClickSendSender) SendOTP(ctx context.Context, phone string, code string, expiresAt time.Time) error {
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("phone is required")
	}

	reqBody := clickSendRequest{
		Messages: []clickSendMessage{{
			Source: "lishe-api",
			From:   s.from,
			Body:   BuildOTPMessage(code, expiresAt),
			To:     phone,
		}},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/sms/send", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(s.username, s.apiKey)
	req.Header.Set("Content-Type", "application/json")

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
		return fmt.Errorf("clicksend http error: status=%d", resp.StatusCode)
	}

	var cr clickSendResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if cr.ResponseCode != "SUCCESS" {
		return fmt.Errorf("clicksend api error: %s %s", cr.ResponseCode, cr.ResponseMsg)
	}
	for _, m := range cr.Data.Messages {
		if m.Status != "SUCCESS" {
			return fmt.Errorf("clicksend message rejected: %s", m.Status)
		}
	}
	return nil
}

type clickSendRequest struct {
	Messages []clickSendMessage `json:"messages"`
}

type clickSendMessage struct {
	Source string `json:"source"`
	From   string `json:"from,omitempty"`
	Body   string `json:"body"`
	To     string `json:"to"`
}

type clickSendResponse struct {
	HTTPCode     int    `json:"http_code"`
	ResponseCode string `json:"response_code"`
	ResponseMsg  string `json:"response_msg"`
	Data         struct {
		Messages []struct {
			Status string `json:"status"`
		} `json:"messages"`
	} `json:"data"`
}
