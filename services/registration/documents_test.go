package registration

import (
	"context"
	"testing"

	"telvia/models"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nidVerifiedSession(t *testing.T, svc *DefaultRegistrationService) string {
	t.Helper()
	sessionID := otpVerifiedSession(t, svc)
	httpmock.RegisterResponder("POST", nidBaseURL+"/nid/verify",
		httpmock.NewJsonResponderOrPanic(200, map[string]bool{"status": true}))
	_, err := svc.SubmitNID(context.Background(), sessionID, validNID())
	require.NoError(t, err)
	return sessionID
}

func validOtherInfo() OtherInfoRequest {
	return OtherInfoRequest{
		AddressLine1:       "12 Motijheel C/A",
		City:               "Dhaka",
		District:           "Dhaka",
		PostCode:           "1000",
		TradeLicenseNumber: "TL-445566",
		TINNumber:          "123456789012",
		TaxReturnDate:      "2025-11-30",
		TermsAccepted:      true,
		Documents: []models.DocumentRef{
			{Type: models.DocTradeLicense, PublicID: "kyc/s/trade-license", FileName: "trade.pdf"},
			{Type: models.DocTINCert, PublicID: "kyc/s/tin-certificate", FileName: "tin.pdf"},
			{Type: models.DocBINCert, PublicID: "kyc/s/bin-certificate", FileName: "bin.pdf"},
		},
	}
}

func TestSubmitOtherInfoValidation(t *testing.T) {
	svc, _ := newTestService(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	sessionID := nidVerifiedSession(t, svc)
	ctx := context.Background()

	t.Run("terms must be accepted", func(t *testing.T) {
		req := validOtherInfo()
		req.TermsAccepted = false
		err := svc.SubmitOtherInfo(ctx, sessionID, req)
		var fieldErrs FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Equal(t, "termsAccepted", fieldErrs[0].Field)
	})

	t.Run("required document missing", func(t *testing.T) {
		req := validOtherInfo()
		req.Documents = req.Documents[:2] // drop the BIN certificate
		err := svc.SubmitOtherInfo(ctx, sessionID, req)
		var fieldErrs FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs.Error(), models.DocBINCert)
	})

	t.Run("unknown document type", func(t *testing.T) {
		req := validOtherInfo()
		req.Documents = append(req.Documents, models.DocumentRef{Type: "passport", PublicID: "x"})
		err := svc.SubmitOtherInfo(ctx, sessionID, req)
		var fieldErrs FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
	})

	t.Run("valid submission sticks", func(t *testing.T) {
		require.NoError(t, svc.SubmitOtherInfo(ctx, sessionID, validOtherInfo()))
		sess, err := svc.GetSession(ctx, sessionID)
		require.NoError(t, err)
		assert.True(t, sess.Other.Submitted)
		assert.Len(t, sess.Other.Documents, 3)
	})
}

func TestSubmitOtherInfoRequiresNIDFirst(t *testing.T) {
	svc, _ := newTestService(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	sessionID := otpVerifiedSession(t, svc)

	err := svc.SubmitOtherInfo(context.Background(), sessionID, validOtherInfo())
	assert.ErrorIs(t, err, ErrStepNotReady)
}

func TestAttachDocumentReplacesSameType(t *testing.T) {
	svc, _ := newTestService(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	sessionID := nidVerifiedSession(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.AttachDocument(ctx, sessionID, models.DocumentRef{
		Type: models.DocTradeLicense, PublicID: "kyc/s/v1", FileName: "old.pdf",
	}))
	require.NoError(t, svc.AttachDocument(ctx, sessionID, models.DocumentRef{
		Type: models.DocTradeLicense, PublicID: "kyc/s/v2", FileName: "new.pdf",
	}))

	sess, err := svc.GetSession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, sess.Other.Documents, 1)
	assert.Equal(t, "kyc/s/v2", sess.Other.Documents[0].PublicID)

	// NID sides are stored on the personal step, not the document list.
	require.NoError(t, svc.AttachDocument(ctx, sessionID, models.DocumentRef{
		Type: models.DocNIDFront, PublicID: "kyc/s/front",
	}))
	sess, err = svc.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "kyc/s/front", sess.Personal.NIDFrontID)
	assert.Len(t, sess.Other.Documents, 1)
}
