package checkout

import "errors"

var (
	// ErrPaymentMethodRequired rejects a prepaid checkout with no method chosen.
	ErrPaymentMethodRequired = errors.New("a payment method is required")

	// ErrPendingNotFound means no stashed purchase exists for the reference.
	ErrPendingNotFound = errors.New("no pending purchase for this reference")

	// ErrAlreadyConsumed means the stashed purchase was already handed off
	// once. Callbacks replayed by reloads land here instead of provisioning
	// a second time.
	ErrAlreadyConsumed = errors.New("pending purchase already consumed")

	// ErrPaymentFailed carries a gateway callback that did not report success.
	ErrPaymentFailed = errors.New("payment was not successful")

	// ErrActivationFailed means the payment settled but provisioning did not
	// finish. The purchase intent is spent; the recorded run and the dashboard
	// notification carry the detail, and support picks it up from there.
	ErrActivationFailed = errors.New("service activation failed")
)
