package registration

import (
	"context"
	"fmt"

	"telvia/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var allowedDocumentTypes = func() map[string]bool {
	allowed := make(map[string]bool)
	for _, t := range models.RequiredDocumentTypes {
		allowed[t] = true
	}
	for _, t := range models.OptionalDocumentTypes {
		allowed[t] = true
	}
	return allowed
}()

// Validate enforces the collection step's rules. Everything here is local;
// the first backend call happens at finalize.
func (r OtherInfoRequest) Validate() error {
	if err := fieldErrorsFromOzzo(validation.ValidateStruct(&r,
		validation.Field(&r.AddressLine1, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.City, validation.Required),
		validation.Field(&r.District, validation.Required),
		validation.Field(&r.PostCode, validation.Required),
		validation.Field(&r.TradeLicenseNumber, validation.Required),
		validation.Field(&r.TINNumber, validation.Required),
		validation.Field(&r.TaxReturnDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.TermsAccepted,
			validation.Required.Error("you must accept the terms and conditions")),
	)); err != nil {
		return err
	}
	return r.validateDocuments()
}

func (r OtherInfoRequest) validateDocuments() error {
	var errs FieldErrors
	seen := make(map[string]bool)
	for _, doc := range r.Documents {
		if !allowedDocumentTypes[doc.Type] {
			errs = append(errs, FieldError{Field: "documents", Message: fmt.Sprintf("unknown document type %q", doc.Type)})
			continue
		}
		if seen[doc.Type] {
			errs = append(errs, FieldError{Field: "documents", Message: fmt.Sprintf("duplicate document type %q", doc.Type)})
		}
		seen[doc.Type] = true
	}
	for _, required := range models.RequiredDocumentTypes {
		if !seen[required] {
			errs = append(errs, FieldError{Field: "documents", Message: fmt.Sprintf("%s is required", required)})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SubmitOtherInfo stores the collection step on the session.
func (s *DefaultRegistrationService) SubmitOtherInfo(ctx context.Context, sessionID string, req OtherInfoRequest) error {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Step != models.StepOtherInfo || !sess.Personal.NIDVerified {
		return ErrStepNotReady
	}

	if err := req.Validate(); err != nil {
		return err
	}

	sess.Other = models.OtherInfo{
		AddressLine1:       req.AddressLine1,
		AddressLine2:       req.AddressLine2,
		City:               req.City,
		District:           req.District,
		PostCode:           req.PostCode,
		TradeLicenseNumber: req.TradeLicenseNumber,
		TINNumber:          req.TINNumber,
		TaxReturnDate:      req.TaxReturnDate,
		TermsAccepted:      req.TermsAccepted,
		Documents:          req.Documents,
		Submitted:          true,
	}
	return s.saveSession(ctx, sess)
}

// AttachDocument records a staged upload on the session so the collection
// step can reference it.
func (s *DefaultRegistrationService) AttachDocument(ctx context.Context, sessionID string, ref models.DocumentRef) error {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if ref.Type != models.DocNIDFront && ref.Type != models.DocNIDBack && !allowedDocumentTypes[ref.Type] {
		return FieldErrors{{Field: "type", Message: fmt.Sprintf("unknown document type %q", ref.Type)}}
	}

	switch ref.Type {
	case models.DocNIDFront:
		sess.Personal.NIDFrontID = ref.PublicID
	case models.DocNIDBack:
		sess.Personal.NIDBackID = ref.PublicID
	default:
		// Replace a previous upload of the same type.
		docs := sess.Other.Documents[:0]
		for _, d := range sess.Other.Documents {
			if d.Type != ref.Type {
				docs = append(docs, d)
			}
		}
		sess.Other.Documents = append(docs, ref)
	}
	return s.saveSession(ctx, sess)
}
