package registration

import (
	"context"
	"fmt"
	"time"

	"telvia/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

func defaultPacing() PacingHints {
	return PacingHints{
		MinVerifyingSeconds:   minVerifyingSeconds,
		SuccessDisplaySeconds: successDisplaySeconds,
	}
}

// Validate rejects the claim before any registry call is made. The NID number
// must be numeric and exactly as long as the selected digit type.
func (r NIDRequest) Validate() error {
	return fieldErrorsFromOzzo(validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.DateOfBirth, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.NIDDigitType, validation.Required, validation.In(10, 17).Error("must be 10 or 17")),
		validation.Field(&r.NIDNumber, validation.Required,
			validation.Match(nidNumericRe).Error("must contain digits only"),
			validation.By(r.nidLengthRule)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.ConfirmPassword, validation.Required,
			validation.In(r.Password).Error("passwords do not match")),
	))
}

func (r NIDRequest) nidLengthRule(value interface{}) error {
	number, _ := value.(string)
	if r.NIDDigitType != 10 && r.NIDDigitType != 17 {
		// The digit-type rule reports this one.
		return nil
	}
	if len(number) != r.NIDDigitType {
		return fmt.Errorf("must be exactly %d digits", r.NIDDigitType)
	}
	return nil
}

// SubmitNID validates locally, then asks the registry to confirm the claimed
// identity. A false status is a retryable failure that keeps the entered
// data; only a true status advances the wizard.
func (s *DefaultRegistrationService) SubmitNID(ctx context.Context, sessionID string, req NIDRequest) (*NIDResult, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Personal.NIDVerified {
		return nil, ErrStepLocked
	}
	if sess.Step != models.StepNidVerification || !sess.Verification.OTPVerified {
		return nil, ErrStepNotReady
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Retain the entered data regardless of the verdict.
	sess.Personal.FullName = req.FullName
	sess.Personal.DateOfBirth = req.DateOfBirth
	sess.Personal.NIDNumber = req.NIDNumber
	sess.Personal.NIDDigitType = req.NIDDigitType
	sess.Personal.Password = req.Password
	sess.Personal.NIDFrontID = req.NIDFrontID
	sess.Personal.NIDBackID = req.NIDBackID

	verified := false
	if s.NIDMode == models.ModeSimulated {
		time.Sleep(simulatedCallDelay)
		verified = true
	} else {
		verified, err = s.NID.Verify(ctx, req.NIDNumber, req.NIDDigitType, req.FullName, req.DateOfBirth)
		if err != nil {
			// Transport failure, not a mismatch: keep the step armed.
			if saveErr := s.saveSession(ctx, sess); saveErr != nil {
				s.Logger.Error("failed to save session after NID transport error", zap.Error(saveErr))
			}
			return nil, fmt.Errorf("NID verification request failed: %w", err)
		}
	}

	if verified {
		sess.Personal.NIDVerified = true
		sess.Personal.NIDVerificationFailed = false
		sess.Step = models.StepOtherInfo
	} else {
		sess.Personal.NIDVerificationFailed = true
	}
	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &NIDResult{
		Verified: verified,
		Failed:   !verified,
		Step:     sess.Step,
		Pacing:   defaultPacing(),
	}, nil
}

// RetryNID re-arms the step after a mismatch. The entered data stays.
func (s *DefaultRegistrationService) RetryNID(ctx context.Context, sessionID string) error {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Personal.NIDVerified {
		return ErrStepLocked
	}
	sess.Personal.NIDVerificationFailed = false
	return s.saveSession(ctx, sess)
}
