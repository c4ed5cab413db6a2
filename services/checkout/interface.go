// Package checkout orchestrates package purchases: pricing, the gateway
// round trip for prepaid partners, the one-shot pending-purchase handoff,
// and per-product service activation.
package checkout

import (
	"context"
	"time"

	"telvia/clients"
	"telvia/models"

	"go.uber.org/zap"
)

// CheckoutRequest is a purchase attempt for one package of one product.
type CheckoutRequest struct {
	Service       models.ServiceType `json:"service"`
	PackageID     string             `json:"packageId"`
	PaymentMethod string             `json:"paymentMethod"`
}

// CheckoutResult is either an immediate activation (postpaid or simulated
// payments) or a gateway redirect the browser must follow.
type CheckoutResult struct {
	Activated     bool   `json:"activated"`
	RedirectURL   string `json:"redirectUrl,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	Price         int64  `json:"price"`
	VAT           int64  `json:"vat"`
	Total         int64  `json:"total"`
	// Portal carries the activation panel's fixed initial credentials.
	Portal *PortalAccess `json:"portal,omitempty"`
}

// CheckoutService drives the purchase flow end to end.
type CheckoutService interface {
	Checkout(ctx context.Context, claims models.TokenClaims, req CheckoutRequest) (*CheckoutResult, error)
	CompleteFromCallback(ctx context.Context, params models.CallbackParams) (*models.PendingPurchase, error)
	AbandonFromCallback(ctx context.Context, params models.CallbackParams) error
}

// ActivatorService provisions a purchased package on the product backends.
type ActivatorService interface {
	Activate(ctx context.Context, pending models.PendingPurchase) (*models.SagaRun, error)
}

// ReminderScheduler enqueues the package-expiry reminder fired near the end
// of a plan's validity.
type ReminderScheduler interface {
	ScheduleExpiryReminder(partnerID int, service models.ServiceType, packageName string, expiresAt time.Time) error
}

// DefaultCheckoutService is the production implementation.
type DefaultCheckoutService struct {
	Partner       *clients.PartnerClient
	Payment       *clients.PaymentClient
	Activator     ActivatorService
	Pending       PendingStore
	PaymentMode   models.Mode
	PortalBaseURL string
	Logger        *zap.Logger
}
