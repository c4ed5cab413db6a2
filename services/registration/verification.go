package registration

import (
	"context"
	"fmt"
	"time"

	"telvia/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Start validates the applicant fields, rejects duplicates, requests an OTP
// for the phone and opens the wizard session with the countdown running.
func (s *DefaultRegistrationService) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.Partner.Validate(ctx, req.CompanyName, req.Phone, req.Email); err != nil {
		return nil, mapDuplicateError(err)
	}

	if err := s.sendOTP(ctx, req.Phone); err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &models.RegistrationSession{
		ID:   uuid.New().String(),
		Step: models.StepVerification,
		Verification: models.VerificationData{
			CompanyName: req.CompanyName,
			Email:       req.Email,
			Phone:       req.Phone,
			OTPSent:     true,
			OTPSentAt:   now,
		},
		CreatedAt: now,
	}
	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	s.Logger.Info("registration session opened",
		zap.String("sessionId", sess.ID),
		zap.String("company", req.CompanyName))

	return &StartResult{SessionID: sess.ID, OTPSent: true, SecondsLeft: models.OTPCountdownSeconds}, nil
}

// VerifyOTP confirms the code. Success freezes the verified phone/email for
// the rest of the session and advances the wizard.
func (s *DefaultRegistrationService) VerifyOTP(ctx context.Context, sessionID, code string) (*VerifyOTPResult, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Verification.OTPVerified {
		return nil, ErrStepLocked
	}
	if !sess.Verification.OTPSent {
		return nil, ErrStepNotReady
	}
	if !otpRe.MatchString(code) {
		return nil, FieldErrors{{Field: "otp", Message: "the code must be 5 digits"}}
	}

	if s.OTPMode == models.ModeSimulated {
		time.Sleep(simulatedCallDelay)
	} else {
		if err := s.Partner.VerifyOTP(ctx, sess.Verification.Phone, code); err != nil {
			// Retryable: the session and its entered data stay untouched.
			return nil, fmt.Errorf("OTP verification failed: %w", err)
		}
	}

	sess.Verification.OTPVerified = true
	sess.Step = models.StepNidVerification
	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}
	return &VerifyOTPResult{Verified: true, Step: sess.Step}, nil
}

// ResendOTP reissues the code. Only allowed once the countdown reaches zero,
// and it restarts the countdown.
func (s *DefaultRegistrationService) ResendOTP(ctx context.Context, sessionID string) (*StartResult, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Verification.OTPVerified {
		return nil, ErrStepLocked
	}
	if sess.OTPSecondsLeft(time.Now()) > 0 {
		return nil, ErrResendNotReady
	}

	if err := s.sendOTP(ctx, sess.Verification.Phone); err != nil {
		return nil, err
	}

	sess.Verification.OTPSent = true
	sess.Verification.OTPSentAt = time.Now()
	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}
	return &StartResult{SessionID: sess.ID, OTPSent: true, SecondsLeft: models.OTPCountdownSeconds}, nil
}

func (s *DefaultRegistrationService) sendOTP(ctx context.Context, phone string) error {
	if s.OTPMode == models.ModeSimulated {
		time.Sleep(simulatedCallDelay)
		return nil
	}
	if err := s.Partner.SendOTP(ctx, phone); err != nil {
		return fmt.Errorf("failed to send OTP: %w", err)
	}
	return nil
}
