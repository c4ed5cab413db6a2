package clients

import (
	"context"
	"errors"
	"net/url"

	"telvia/models"

	"go.uber.org/zap"
)

// ErrGatewayResponse marks an initiation answer that carried no usable
// redirect URL. The checkout aborts without side effects when this happens.
var ErrGatewayResponse = errors.New("payment gateway did not return a redirect URL")

// PaymentClient talks to the external payment gateway.
type PaymentClient struct {
	*backend
}

// NewPaymentClient returns a client for the given base URL.
func NewPaymentClient(baseURL string, logger *zap.Logger) *PaymentClient {
	return &PaymentClient{backend: newBackend(baseURL, logger)}
}

// Initiate starts a gateway payment and returns the page the browser must be
// sent to. Deployments differ on the response field name, so both are tried.
func (c *PaymentClient) Initiate(ctx context.Context, order models.PaymentOrder) (string, error) {
	var resp models.GatewayResponse
	if err := c.postJSON(ctx, "/payment/ssl-initiate", order, &resp); err != nil {
		return "", err
	}

	redirect := resp.RedirectURL
	if redirect == "" {
		redirect = resp.GatewayPageURL
	}
	if !isHTTPURL(redirect) {
		c.logger.Warn("gateway initiation returned no redirect URL",
			zap.String("status", resp.Status),
			zap.String("reason", resp.FailedReason))
		return "", ErrGatewayResponse
	}
	return redirect, nil
}

func isHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
