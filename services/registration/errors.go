package registration

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"telvia/clients"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrSessionNotFound covers both unknown and expired wizard sessions.
	ErrSessionNotFound = errors.New("registration session not found or expired")
	// ErrStepLocked rejects writes to a step whose verification flag is set.
	ErrStepLocked = errors.New("this step has already been completed and cannot be revisited")
	// ErrStepNotReady rejects a step reached out of order.
	ErrStepNotReady = errors.New("previous step has not been completed")
	// ErrResendNotReady rejects a resend while the countdown is running.
	ErrResendNotReady = errors.New("resend is not available until the countdown finishes")
	// ErrPartnerIDMissing fails the whole submission when the create call
	// yields no numeric partner identifier.
	ErrPartnerIDMissing = errors.New("Partner ID missing")
	// ErrNotSubmittable rejects a finalize before the last step is complete.
	ErrNotSubmittable = errors.New("registration is not ready for submission")
)

// FieldError blames a specific form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is a validation outcome that never reached the network (or a
// duplicate conflict mapped back onto its field).
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// fieldErrorsFromOzzo flattens an ozzo validation result into FieldErrors.
func fieldErrorsFromOzzo(err error) error {
	if err == nil {
		return nil
	}
	var ozzoErrs validation.Errors
	if !errors.As(err, &ozzoErrs) {
		return err
	}
	fields := make([]string, 0, len(ozzoErrs))
	for field := range ozzoErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	out := make(FieldErrors, 0, len(ozzoErrs))
	for _, field := range fields {
		out = append(out, FieldError{Field: field, Message: ozzoErrs[field].Error()})
	}
	return out
}

// classifyDuplicate maps the partner backend's free-text duplicate message to
// the form field it blames. This is a compatibility shim over a fragile
// contract: the backend signals duplicates as a generic 400 whose message
// names the field. Keep all string matching here and nowhere else.
func classifyDuplicate(message string) (string, bool) {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "email"):
		return "email", true
	case strings.Contains(m, "phone"), strings.Contains(m, "telephone"), strings.Contains(m, "mobile"):
		return "phone", true
	case strings.Contains(m, "partner name"), strings.Contains(m, "company"):
		return "companyName", true
	default:
		return "", false
	}
}

// mapDuplicateError converts a duplicate-conflict 400 into a FieldErrors
// value; anything else passes through unchanged.
func mapDuplicateError(err error) error {
	var apiErr *clients.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return err
	}
	field, ok := classifyDuplicate(apiErr.Message)
	if !ok {
		return err
	}
	return FieldErrors{{Field: field, Message: apiErr.Message}}
}
