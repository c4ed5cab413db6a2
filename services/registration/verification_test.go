package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"telvia/models"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStart() StartRequest {
	return StartRequest{
		CompanyName: "Meghna Traders",
		Email:       "billing@meghna.example",
		Phone:       "+8801712345678",
	}
}

func registerHappyPartnerResponders() {
	httpmock.RegisterResponder("POST", partnerBaseURL+"/partner/validate",
		httpmock.NewJsonResponderOrPanic(200, map[string]string{"message": "ok"}))
	httpmock.RegisterResponder("POST", partnerBaseURL+"/otp/send",
		httpmock.NewJsonResponderOrPanic(200, map[string]string{"message": "sent"}))
	httpmock.RegisterResponder("POST", partnerBaseURL+"/otp/verify",
		httpmock.NewJsonResponderOrPanic(200, map[string]string{"message": "verified"}))
}

func TestStartValidation(t *testing.T) {
	svc, _ := newTestService(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	tests := []struct {
		name  string
		req   StartRequest
		field string
	}{
		{"missing company", StartRequest{Email: "a@b.example", Phone: "+8801712345678"}, "companyName"},
		{"bad email", StartRequest{CompanyName: "Meghna", Email: "not-an-email", Phone: "+8801712345678"}, "email"},
		{"foreign phone", StartRequest{CompanyName: "Meghna", Email: "a@b.example", Phone: "+12025550123"}, "phone"},
		{"short phone", StartRequest{CompanyName: "Meghna", Email: "a@b.example", Phone: "+880171234"}, "phone"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Start(context.Background(), tc.req)
			var fieldErrs FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Equal(t, tc.field, fieldErrs[0].Field)
		})
	}
	// No request may leave the process for an invalid form.
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestDuplicateClassification(t *testing.T) {
	svc, _ := newTestService(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	tests := []struct {
		message string
		field   string
	}{
		{"Email already exists", "email"},
		{"telephone number already registered", "phone"},
		{"duplicate mobile number", "phone"},
		{"Partner name already taken", "companyName"},
		{"company already registered", "companyName"},
	}
	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			httpmock.RegisterResponder("POST", partnerBaseURL+"/partner/validate",
				httpmock.NewJsonResponderOrPanic(400, map[string]string{"message": tc.message}))

			_, err := svc.Start(context.Background(), validStart())
			var fieldErrs FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Equal(t, tc.field, fieldErrs[0].Field)
			assert.Equal(t, tc.message, fieldErrs[0].Message)
		})
	}
}

func TestUnclassifiedBackendErrorPassesThrough(t *testing.T) {
	svc, _ := newTestService(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("POST", partnerBaseURL+"/partner/validate",
		httpmock.NewJsonResponderOrPanic(500, map[string]string{"message": "boom"}))

	_, err := svc.Start(context.Background(), validStart())
	require.Error(t, err)
	var fieldErrs FieldErrors
	assert.False(t, errors.As(err, &fieldErrs))
}

func TestOTPHappyPath(t *testing.T) {
	svc, _ := newTestService(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	registerHappyPartnerResponders()

	ctx := context.Background()
	started, err := svc.Start(ctx, validStart())
	require.NoError(t, err)
	assert.True(t, started.OTPSent)
	assert.Equal(t, models.OTPCountdownSeconds, started.SecondsLeft)

	// Malformed codes are rejected locally.
	_, err = svc.VerifyOTP(ctx, started.SessionID, "12ab5")
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	result, err := svc.VerifyOTP(ctx, started.SessionID, "54321")
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Equal(t, models.StepNidVerification, result.Step)

	// The step is locked once verified.
	_, err = svc.VerifyOTP(ctx, started.SessionID, "54321")
	assert.ErrorIs(t, err, ErrStepLocked)
}

func TestVerifyOTPWrongCodeKeepsSession(t *testing.T) {
	svc, _ := newTestService(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	registerHappyPartnerResponders()
	httpmock.RegisterResponder("POST", partnerBaseURL+"/otp/verify",
		httpmock.NewJsonResponderOrPanic(400, map[string]string{"message": "wrong code"}))

	ctx := context.Background()
	started, err := svc.Start(ctx, validStart())
	require.NoError(t, err)

	_, err = svc.VerifyOTP(ctx, started.SessionID, "11111")
	require.Error(t, err)

	// The session survives a wrong code and stays on the first step.
	sess, err := svc.GetSession(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepVerification, sess.Step)
	assert.False(t, sess.Verification.OTPVerified)
}

func TestResendGating(t *testing.T) {
	svc, _ := newTestService(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	registerHappyPartnerResponders()

	ctx := context.Background()
	started, err := svc.Start(ctx, validStart())
	require.NoError(t, err)

	// Countdown running: resend refused.
	_, err = svc.ResendOTP(ctx, started.SessionID)
	assert.ErrorIs(t, err, ErrResendNotReady)

	// Age the session past the countdown.
	sess, err := svc.GetSession(ctx, started.SessionID)
	require.NoError(t, err)
	sess.Verification.OTPSentAt = time.Now().Add(-time.Duration(models.OTPCountdownSeconds+1) * time.Second)
	require.NoError(t, svc.saveSession(ctx, sess))

	resent, err := svc.ResendOTP(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.OTPCountdownSeconds, resent.SecondsLeft)

	// The countdown restarted.
	_, err = svc.ResendOTP(ctx, started.SessionID)
	assert.ErrorIs(t, err, ErrResendNotReady)
}

func TestResendLockedAfterVerification(t *testing.T) {
	svc, _ := newTestService(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	registerHappyPartnerResponders()

	ctx := context.Background()
	started, err := svc.Start(ctx, validStart())
	require.NoError(t, err)
	_, err = svc.VerifyOTP(ctx, started.SessionID, "54321")
	require.NoError(t, err)

	_, err = svc.ResendOTP(ctx, started.SessionID)
	assert.ErrorIs(t, err, ErrStepLocked)
}

func TestUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.VerifyOTP(context.Background(), "no-such-session", "54321")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
