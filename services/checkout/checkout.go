package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"telvia/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// simulatedPaymentDelay paces the bypassed gateway so a simulated environment
// still feels like a real exchange. Tests shorten it.
var simulatedPaymentDelay = 1 * time.Second

// Checkout prices the package and routes by billing mode. Postpaid partners
// activate immediately and settle on their invoice; prepaid partners are sent
// to the payment gateway, with the purchase intent stashed only after the
// gateway has accepted the initiation.
func (s *DefaultCheckoutService) Checkout(ctx context.Context, claims models.TokenClaims, req CheckoutRequest) (*CheckoutResult, error) {
	pkg, err := LookupPackage(req.Service, req.PackageID)
	if err != nil {
		return nil, err
	}

	price := pkg.Price
	vat := ComputeVAT(price)
	total := ComputeTotal(price)

	pending := models.PendingPurchase{
		ServiceType:  pkg.Service,
		PartnerID:    claims.PartnerID,
		Email:        claims.Email,
		PackageID:    pkg.ID,
		PackageIDInt: pkg.BackendID,
		PackageName:  pkg.Name,
		Price:        price,
	}

	if claims.CustomerPrePaid == models.BillingPostpaid {
		if _, err := s.Activator.Activate(ctx, pending); err != nil {
			return nil, err
		}
		return &CheckoutResult{
			Activated: true, Price: price, VAT: vat, Total: total,
			Portal: PortalAccessFor(pkg.Service, claims.Email),
		}, nil
	}

	if req.PaymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}

	if s.PaymentMode == models.ModeSimulated {
		time.Sleep(simulatedPaymentDelay)
		if _, err := s.Activator.Activate(ctx, pending); err != nil {
			return nil, err
		}
		return &CheckoutResult{
			Activated: true, Price: price, VAT: vat, Total: total,
			Portal: PortalAccessFor(pkg.Service, claims.Email),
		}, nil
	}

	partner, err := s.Partner.Get(ctx, claims.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load partner profile for checkout: %w", err)
	}

	transactionID := uuid.New().String()
	order := models.PaymentOrder{
		TransactionID:   transactionID,
		Amount:          total,
		Currency:        "BDT",
		PaymentMethod:   req.PaymentMethod,
		ProductName:     fmt.Sprintf("%s / %s", pkg.Service, pkg.Name),
		CustomerName:    partner.PartnerName,
		CustomerEmail:   partner.Email,
		CustomerPhone:   partner.Telephone,
		CustomerAddress: partner.AddressLine1,
		SuccessURL:      s.PortalBaseURL + "/api/payment/success",
		FailURL:         s.PortalBaseURL + "/api/payment/fail",
		CancelURL:       s.PortalBaseURL + "/api/payment/cancel",
	}

	redirect, err := s.Payment.Initiate(ctx, order)
	if err != nil {
		// Nothing was stashed, so the abort leaves no state behind.
		return nil, err
	}

	if err := s.Pending.Stash(ctx, transactionID, pending); err != nil {
		return nil, err
	}

	s.Logger.Info("checkout redirecting to payment gateway",
		zap.Int("partnerId", claims.PartnerID),
		zap.String("service", string(pkg.Service)),
		zap.String("package", pkg.ID),
		zap.String("tranId", transactionID))

	return &CheckoutResult{
		RedirectURL:   redirect,
		TransactionID: transactionID,
		Price:         price,
		VAT:           vat,
		Total:         total,
	}, nil
}

// CompleteFromCallback consumes the stashed intent exactly once and
// activates the service. Replayed callbacks surface ErrAlreadyConsumed and
// must not provision a second time.
func (s *DefaultCheckoutService) CompleteFromCallback(ctx context.Context, params models.CallbackParams) (*models.PendingPurchase, error) {
	if !callbackSucceeded(params.Status) {
		return nil, ErrPaymentFailed
	}

	pending, err := s.Pending.Consume(ctx, params.TransactionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.Activator.Activate(ctx, *pending); err != nil {
		// The payment settled and the intent is spent, so this is not a
		// payment failure. Return the purchase alongside the typed error so
		// the caller can still land the user on the receipt.
		s.Logger.Error("activation failed after successful payment",
			zap.String("tranId", params.TransactionID),
			zap.Int("partnerId", pending.PartnerID),
			zap.Error(err))
		return pending, fmt.Errorf("%w: %v", ErrActivationFailed, err)
	}
	return pending, nil
}

// AbandonFromCallback discards the stashed intent after a failed or
// cancelled payment.
func (s *DefaultCheckoutService) AbandonFromCallback(ctx context.Context, params models.CallbackParams) error {
	if params.TransactionID == "" {
		return nil
	}
	return s.Pending.Discard(ctx, params.TransactionID)
}

func callbackSucceeded(status string) bool {
	switch strings.ToUpper(status) {
	case "VALID", "VALIDATED", "SUCCESS":
		return true
	}
	return false
}
