// services/payouts.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// PayoutGateway dispatches approved payouts to the external disbursement
// provider's REST API.
type PayoutGateway struct {
	baseURL   string
	apiKey    string
	channel   string
	isTesting bool
}

// PayoutDispatch is the payload sent to the disbursement provider.
type PayoutDispatch struct {
	Reference string  `json:"reference"`
	UserID    string  `json:"userId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

type gatewayResponse struct {
	Status  bool                   `json:"status"`
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// NewPayoutGateway creates a gateway client from environment configuration.
func NewPayoutGateway() *PayoutGateway {
	isTesting := os.Getenv("PAYOUT_ENV") == "testing"

	baseURL := os.Getenv("PAYOUT_GATEWAY_URL")
	if baseURL == "" {
		baseURL = "https://api.sandbox.payouts.example.com/disbursement/api/"
	}

	apiKey := os.Getenv("PAYOUT_API_KEY")
	channel := os.Getenv("PAYOUT_CHANNEL")
	if apiKey == "" || channel == "" {
		log.Printf("WARNING: payout gateway credentials not fully configured:")
		if apiKey == "" {
			log.Printf("  - PAYOUT_API_KEY is missing")
		}
		if channel == "" {
			log.Printf("  - PAYOUT_CHANNEL is missing")
		}
		log.Printf("Payout dispatch will fail until these environment variables are set")
	}

	return &PayoutGateway{
		baseURL:   baseURL,
		apiKey:    apiKey,
		channel:   channel,
		isTesting: isTesting,
	}
}

func (g *PayoutGateway) makeRequest(method, endpoint string, payload interface{}) (*gatewayResponse, error) {
	if g.apiKey == "" || g.channel == "" {
		return nil, fmt.Errorf("missing payout gateway credentials; set PAYOUT_API_KEY and PAYOUT_CHANNEL")
	}

	url := g.baseURL + endpoint

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("channel", g.channel)
	req.Header.Set("apikey", g.apiKey)

	if g.isTesting || os.Getenv("PAYOUT_DEBUG") == "true" {
		log.Printf("Payout gateway request: %s %s", method, url)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if g.isTesting || os.Getenv("PAYOUT_DEBUG") == "true" {
		log.Printf("Payout gateway response: %s", string(respBody))
	}

	var gwResp gatewayResponse
	if err := json.Unmarshal(respBody, &gwResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !gwResp.Status {
		code := gwResp.Code
		if code == "" {
			code = "unknown"
		}
		return &gwResp, fmt.Errorf("payout gateway error: %s - %s", code, gwResp.Message)
	}

	return &gwResp, nil
}

// Dispatch sends an approved payout for disbursement and returns the
// provider's transaction ID.
func (g *PayoutGateway) Dispatch(payout PayoutDispatch) (string, error) {
	resp, err := g.makeRequest("POST", "payouts", payout)
	if err != nil {
		return "", err
	}
	if txID, ok := resp.Data["transactionId"].(string); ok {
		return txID, nil
	}
	return "", fmt.Errorf("failed to parse transaction ID from response")
}

// Status returns the disbursement status for a previously dispatched payout.
func (g *PayoutGateway) Status(reference string) (string, error) {
	resp, err := g.makeRequest("GET", "payouts/"+reference, nil)
	if err != nil {
		return "", err
	}
	if status, ok := resp.Data["status"].(string); ok {
		return status, nil
	}
	return "", fmt.Errorf("failed to parse status from response")
}
