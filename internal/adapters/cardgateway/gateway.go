// Package cardgateway implements the CardGateway port against an external
// card processor's HTTP API, plus a sandbox implementation for environments
// without one.
package cardgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
)

// HTTPCardGateway charges cards through the processor's REST endpoint. Card
// data never touches this service; charges reference gateway-issued tokens.
type HTTPCardGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPCardGateway creates a gateway client for the processor at baseURL.
func NewHTTPCardGateway(baseURL, apiKey string) *HTTPCardGateway {
	return &HTTPCardGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

var _ portssvc.CardGateway = (*HTTPCardGateway)(nil)

type chargeRequest struct {
	CardToken string `json:"cardToken"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type chargeResponse struct {
	Outcome     string `json:"outcome"`
	GatewayRef  string `json:"gatewayRef"`
	FailureText string `json:"failureText"`
}

// Charge submits the charge and classifies the processor's answer. The
// reference doubles as the processor-side idempotency key, so a retried
// request cannot charge the card twice.
func (g *HTTPCardGateway) Charge(ctx context.Context, cardToken string, amount decimal.Decimal, reference string) (portssvc.CardChargeResult, error) {
	body, err := json.Marshal(chargeRequest{
		CardToken: cardToken,
		Amount:    amount.StringFixed(2),
		Currency:  "USD",
		Reference: reference,
	})
	if err != nil {
		return portssvc.CardChargeResult{}, fmt.Errorf("failed to encode charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return portssvc.CardChargeResult{}, fmt.Errorf("failed to build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Idempotency-Key", reference)

	resp, err := g.client.Do(req)
	if err != nil {
		return portssvc.CardChargeResult{}, fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return portssvc.CardChargeResult{}, fmt.Errorf("charge request returned status %d", resp.StatusCode)
	}

	var cr chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return portssvc.CardChargeResult{}, fmt.Errorf("failed to decode charge response: %w", err)
	}

	result := portssvc.CardChargeResult{
		GatewayRef:  cr.GatewayRef,
		FailureText: cr.FailureText,
	}
	switch cr.Outcome {
	case "approved":
		result.Outcome = portssvc.CardChargeApproved
	case "declined":
		result.Outcome = portssvc.CardChargeDeclined
	case "insufficient_funds":
		result.Outcome = portssvc.CardChargeInsufficientFunds
	default:
		result.Outcome = portssvc.CardChargeProcessingError
	}
	return result, nil
}

// SandboxCardGateway approves every charge. Used when no processor is
// configured (local development, CI).
type SandboxCardGateway struct{}

// NewSandboxCardGateway creates the always-approving gateway.
func NewSandboxCardGateway() *SandboxCardGateway {
	return &SandboxCardGateway{}
}

var _ portssvc.CardGateway = (*SandboxCardGateway)(nil)

// Charge approves the charge with a synthetic gateway reference.
func (g *SandboxCardGateway) Charge(ctx context.Context, cardToken string, amount decimal.Decimal, reference string) (portssvc.CardChargeResult, error) {
	return portssvc.CardChargeResult{
		Outcome:    portssvc.CardChargeApproved,
		GatewayRef: "sandbox-" + uuid.NewString(),
	}, nil
}
