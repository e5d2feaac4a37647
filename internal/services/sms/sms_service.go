package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SMSService talks to the Eskiz-style SMS gateway. Dispatch is best effort:
// callers log failures and move on.
type SMSService struct {
	Client  *http.Client
	BaseURL string
	Token   string
}

func NewSMSService(baseURL, token string) *SMSService {
	return &SMSService{
		Client:  &http.Client{Timeout: 15 * time.Second},
		BaseURL: baseURL,
		Token:   token,
	}
}

type sendRequest struct {
	MobilePhone string `json:"mobile_phone"`
	Message     string `json:"message"`
	From        string `json:"from"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *SMSService) Send(ctx context.Context, phone, code string) error {
	if s.BaseURL == "" {
		return fmt.Errorf("sms gateway not configured")
	}

	body, err := json.Marshal(sendRequest{
		MobilePhone: phone,
		Message:     "Tasdiqlash kodi: " + code,
		From:        "4546",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/message/sms/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, string(raw))
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	return nil
}
