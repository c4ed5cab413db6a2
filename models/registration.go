package models

import "time"

// RegistrationStep is the wizard position. Steps only move forward; a step
// whose verification flag is set can never be revisited in the same session.
type RegistrationStep string

const (
	StepVerification    RegistrationStep = "verification"
	StepNidVerification RegistrationStep = "nid-verification"
	StepOtherInfo       RegistrationStep = "other-info"
)

// OTPCountdownSeconds is the resend lockout started whenever a code is sent.
const OTPCountdownSeconds = 300

// Document type identifiers for the wizard's file attachments.
const (
	DocTradeLicense  = "trade-license"
	DocTINCert       = "tin-certificate"
	DocBINCert       = "bin-certificate"
	DocJointStock    = "joint-stock"
	DocBTRCApproval  = "btrc-approval"
	DocPhoto         = "photo"
	DocSLA           = "sla"
	DocLastTaxReturn = "last-tax-return"
	DocNIDFront      = "nid-front"
	DocNIDBack       = "nid-back"
)

// RequiredDocumentTypes must all be attached before final submission.
var RequiredDocumentTypes = []string{DocTradeLicense, DocTINCert, DocBINCert}

// OptionalDocumentTypes may be attached but are not enforced.
var OptionalDocumentTypes = []string{DocJointStock, DocBTRCApproval, DocPhoto, DocSLA, DocLastTaxReturn}

// DocumentRef points at a staged upload.
type DocumentRef struct {
	Type     string `json:"type"`
	PublicID string `json:"publicId"`
	FileName string `json:"fileName"`
}

// VerificationData is the first wizard step: applicant identity fields plus
// the OTP exchange state. Phone and email become immutable once verified.
type VerificationData struct {
	CompanyName string    `json:"companyName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	OTPSent     bool      `json:"otpSent"`
	OTPSentAt   time.Time `json:"otpSentAt"`
	OTPVerified bool      `json:"otpVerified"`
}

// PersonalInfo is the second wizard step: the applicant's identity as claimed
// against the national registry, plus the credentials they chose.
type PersonalInfo struct {
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	NIDNumber   string `json:"nidNumber"`
	// NIDDigitType is 10 or 17 and fixes the exact accepted length.
	NIDDigitType int `json:"nidDigitType"`
	// Password is kept in the session store until finalize needs it for the
	// create and auto-login calls. Plaintext at rest is a known gap inherited
	// from the original flow.
	Password              string `json:"password"`
	NIDFrontID            string `json:"nidFrontId"`
	NIDBackID             string `json:"nidBackId"`
	NIDVerified           bool   `json:"nidVerified"`
	NIDVerificationFailed bool   `json:"nidVerificationFailed"`
}

// OtherInfo is the final wizard step: address/business metadata, supporting
// documents and the terms acceptance. Pure client data, no backend calls.
type OtherInfo struct {
	AddressLine1       string        `json:"addressLine1"`
	AddressLine2       string        `json:"addressLine2,omitempty"`
	City               string        `json:"city"`
	District           string        `json:"district"`
	PostCode           string        `json:"postCode"`
	TradeLicenseNumber string        `json:"tradeLicenseNumber"`
	TINNumber          string        `json:"tinNumber"`
	TaxReturnDate      string        `json:"taxReturnDate"`
	TermsAccepted      bool          `json:"termsAccepted"`
	Documents          []DocumentRef `json:"documents"`
	Submitted          bool          `json:"submitted"`
}

// RegistrationSession is the transient wizard state, held in Redis with a
// sliding TTL. It is deleted once the documents have been attached to the
// created partner record.
type RegistrationSession struct {
	ID            string           `json:"id"`
	Step          RegistrationStep `json:"step"`
	Verification  VerificationData `json:"verification"`
	Personal      PersonalInfo     `json:"personal"`
	Other         OtherInfo        `json:"other"`
	CreatedAt     time.Time        `json:"createdAt"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
}

// OTPSecondsLeft returns the remaining resend-lockout seconds, floored at 0.
func (s *RegistrationSession) OTPSecondsLeft(now time.Time) int {
	if !s.Verification.OTPSent {
		return 0
	}
	left := OTPCountdownSeconds - int(now.Sub(s.Verification.OTPSentAt).Seconds())
	if left < 0 {
		return 0
	}
	return left
}

// Document returns the staged reference of the given type, if attached.
func (s *RegistrationSession) Document(docType string) (DocumentRef, bool) {
	for _, d := range s.Other.Documents {
		if d.Type == docType {
			return d, true
		}
	}
	return DocumentRef{}, false
}
