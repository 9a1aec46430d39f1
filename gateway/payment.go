package gateway

import (
	"context"
	"net/http"

	"medibook/models"
)

// PaymentClient implements booking.PaymentInitiator against the redirect
// based payment gateway.
type PaymentClient struct {
	*Client
}

// NewPaymentClient returns a payment initiator for the given gateway base URL.
func NewPaymentClient(baseURL string) *PaymentClient {
	return &PaymentClient{Client: NewClient(baseURL)}
}

// Initiate asks the gateway to start a payment for the appointment. The
// bearer token authenticates the paying patient. Success without a URL is
// treated as failure by the caller.
func (c *PaymentClient) Initiate(ctx context.Context, token string, req models.PaymentRequest) (*models.PaymentResult, error) {
	var result models.PaymentResult
	if err := c.doJSON(ctx, http.MethodPost, "/payments/request", token, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
