package registration

import (
	"context"
	"fmt"
	"io"

	"telvia/clients"
	"telvia/models"
	"telvia/utils"

	"go.uber.org/zap"
)

// provisioningPassword is the fixed credential the auth backend accepts for
// the pre-activation login that authorizes the document attach.
// TODO(provisioning): replace with a per-registration credential once the
// auth backend exposes one; a shared constant cannot be rotated per partner.
const provisioningPassword = "provision@2024"

// Finalize runs the account-provisioning saga: create the partner record,
// obtain a provisioning token, attach the collected documents, then attempt
// an auto-login. The steps are sequential and non-transactional; a failure
// keeps the artifacts of the steps that already ran, and the recorded run is
// how those states stay observable. Only the auto-login step is non-fatal.
func (s *DefaultRegistrationService) Finalize(ctx context.Context, sessionID string) (*FinalizeResult, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Other.Submitted || !sess.Personal.NIDVerified {
		return nil, ErrNotSubmittable
	}

	run := models.NewSagaRun("registration", 0, "")
	defer s.saveRun(ctx, run)

	var partnerID int
	err = run.Step("create-partner", func() error {
		id, err := s.Partner.Create(ctx, models.CreatePartnerRequest{
			PartnerName:        sess.Verification.CompanyName,
			Email:              sess.Verification.Email,
			Telephone:          sess.Verification.Phone,
			Password:           sess.Personal.Password,
			CustomerPrePaid:    models.BillingPrepaid,
			NIDNumber:          sess.Personal.NIDNumber,
			TradeLicenseNumber: sess.Other.TradeLicenseNumber,
			TINNumber:          sess.Other.TINNumber,
			TaxReturnDate:      sess.Other.TaxReturnDate,
			AddressLine1:       sess.Other.AddressLine1,
			AddressLine2:       sess.Other.AddressLine2,
			City:               sess.Other.City,
			District:           sess.Other.District,
			PostCode:           sess.Other.PostCode,
		})
		if err != nil {
			return mapDuplicateError(err)
		}
		if id == 0 {
			return ErrPartnerIDMissing
		}
		partnerID = id
		run.SetPartnerID(id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var provisioningToken string
	err = run.Step("provisioning-login", func() error {
		result, err := s.Auth.Login(ctx, sess.Verification.Email, provisioningPassword)
		if err != nil {
			return fmt.Errorf("provisioning login failed: %w", err)
		}
		provisioningToken = result.Token
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = run.Step("attach-documents", func() error {
		docs, closeAll, err := s.collectDocuments(ctx, sess)
		if err != nil {
			return err
		}
		defer closeAll()
		return s.Partner.AttachDocuments(ctx, provisioningToken, partnerID, docs)
	})
	if err != nil {
		return nil, err
	}

	// The wizard state has served its purpose.
	if err := s.deleteSession(ctx, sessionID); err != nil {
		s.Logger.Warn("failed to delete registration session after finalize",
			zap.String("sessionId", sessionID), zap.Error(err))
	}

	result := &FinalizeResult{PartnerID: partnerID}
	loginErr := run.TryStep("auto-login", func() error {
		login, err := s.Auth.Login(ctx, sess.Verification.Email, sess.Personal.Password)
		if err != nil {
			return fmt.Errorf("auto-login failed: %w", err)
		}
		claims, err := utils.ParseClaims(login.Token)
		if err != nil {
			return fmt.Errorf("auto-login returned an unusable token: %w", err)
		}
		if login.CustomerPrePaid != 0 {
			claims.CustomerPrePaid = login.CustomerPrePaid
		}
		if len(login.AuthRoles) > 0 {
			claims.Roles = login.AuthRoles
		}
		claims.Email = sess.Verification.Email
		if err := s.Store.Save(ctx, login.Token, *claims); err != nil {
			return err
		}
		result.Token = login.Token
		result.CustomerPrePaid = claims.CustomerPrePaid
		result.AutoLoggedIn = true
		return nil
	})
	run.Finish()

	if loginErr != nil {
		s.Logger.Warn("auto-login after registration failed",
			zap.Int("partnerId", partnerID), zap.Error(loginErr))
		result.RedirectTo = "login"
		result.Message = "Your account was created. Please sign in with your credentials."
		return result, nil
	}

	if result.CustomerPrePaid == models.BillingPrepaid {
		result.RedirectTo = "dashboard"
	} else {
		result.RedirectTo = "pending-review"
	}
	return result, nil
}

// collectDocuments fetches every staged file back from storage for the
// multipart attach. The returned closer releases all opened readers.
func (s *DefaultRegistrationService) collectDocuments(ctx context.Context, sess *models.RegistrationSession) ([]clients.Document, func(), error) {
	var docs []clients.Document
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	add := func(field, publicID, fileName string) error {
		if publicID == "" {
			return nil
		}
		rc, err := s.Storage.FetchDocument(ctx, publicID)
		if err != nil {
			return fmt.Errorf("failed to fetch staged document %s: %w", field, err)
		}
		closers = append(closers, rc)
		if fileName == "" {
			fileName = field
		}
		docs = append(docs, clients.Document{Field: field, FileName: fileName, Content: rc})
		return nil
	}

	if err := add(models.DocNIDFront, sess.Personal.NIDFrontID, ""); err != nil {
		closeAll()
		return nil, nil, err
	}
	if err := add(models.DocNIDBack, sess.Personal.NIDBackID, ""); err != nil {
		closeAll()
		return nil, nil, err
	}
	for _, ref := range sess.Other.Documents {
		if err := add(ref.Type, ref.PublicID, ref.FileName); err != nil {
			closeAll()
			return nil, nil, err
		}
	}
	return docs, closeAll, nil
}

// saveRun records the saga outcome for the audit trail. Persistence failures
// are logged, never surfaced: the run record must not fail the registration.
func (s *DefaultRegistrationService) saveRun(ctx context.Context, run *models.SagaRun) {
	if s.Runs == nil {
		return
	}
	if err := s.Runs.Save(ctx, run); err != nil {
		s.Logger.Error("failed to persist provisioning run",
			zap.String("runId", run.ID), zap.Error(err))
	}
}
