package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	paymentgatewaytypes "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/paymentgateway"
)

const intentsPath = "/v1/payment_intents"

// Client creates payment intents with the external provider. Settlement happens client-side; the backend
// only ever sees the resulting transaction id.
type Client struct {
	baseURL    string
	apiKey     string
	currency   string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg internal.PaymentConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.GatewayURL, "/"),
		apiKey:     cfg.APIKey,
		currency:   currency,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Currency() string {
	return c.currency
}

// CreateIntent asks the provider for a new intent. Provider failures come back as unexpected AppErrors.
func (c *Client) CreateIntent(ctx context.Context, req *paymentgatewaytypes.IntentRequest) (*paymentgatewaytypes.IntentResponse, error) {
	if req.Currency == "" {
		req.Currency = c.currency
	}
	if err := req.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidAmount)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, internal.NewUnexpectedError("failed to encode payment intent", err)
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+intentsPath, bytes.NewReader(body))
	if err != nil {
		return nil, internal.NewUnexpectedError("failed to build payment intent request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Info("creating payment intent", "amount", req.Amount, "currency", req.Currency)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("payment provider unreachable", "error", err)
		return nil, providerError("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, providerError("failed to read payment provider response", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr paymentgatewaytypes.ErrorResponse
		msg := fmt.Sprintf("payment provider returned status %d", resp.StatusCode)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = fmt.Sprintf("%s: %s", msg, apiErr.Error.Message)
		}
		c.logger.Error("payment intent rejected", "status", resp.StatusCode, "message", apiErr.Error.Message)
		return nil, providerError(msg, nil)
	}

	var intent paymentgatewaytypes.IntentResponse
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, providerError("failed to decode payment provider response", err)
	}
	if intent.ClientSecret == "" {
		return nil, providerError("payment provider returned no client secret", nil)
	}
	if intent.Status == paymentgatewaytypes.IntentStatusCanceled {
		c.logger.Warn("payment intent canceled by provider", "intent_id", intent.ID)
		return nil, providerError("payment provider canceled the intent", nil)
	}

	c.logger.Info("payment intent created", "intent_id", intent.ID, "status", intent.Status)
	return &intent, nil
}

func providerError(msg string, cause error) *internal.AppError {
	return &internal.AppError{
		Type:       internal.ErrorTypeUnexpected,
		Code:       internal.ErrCodePaymentProvider,
		Message:    msg,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}
