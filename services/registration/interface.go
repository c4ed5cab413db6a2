// Package registration implements the multi-step signup wizard: applicant
// verification (OTP), national-ID verification, document collection, and the
// finalize saga that provisions the partner account.
package registration

import (
	"context"
	"regexp"
	"time"

	"telvia/clients"
	"telvia/models"
	provisionRepo "telvia/database/repository/provision"
	"telvia/services/storage"
	"telvia/services/token"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// simulatedCallDelay paces the bypassed collaborators so a simulated
// environment still feels like a real exchange. Tests shorten it.
var simulatedCallDelay = 1 * time.Second

// Pacing hints the clients render with; the server only enforces the resend
// countdown.
const (
	minVerifyingSeconds   = 5
	successDisplaySeconds = 2
)

var (
	phoneRe      = regexp.MustCompile(`^\+?8801\d{9}$`)
	otpRe        = regexp.MustCompile(`^\d{5}$`)
	nidNumericRe = regexp.MustCompile(`^\d+$`)
)

// StartRequest opens a wizard session.
type StartRequest struct {
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// Validate enforces the step's field rules before anything hits the network.
func (r StartRequest) Validate() error {
	return fieldErrorsFromOzzo(validation.ValidateStruct(&r,
		validation.Field(&r.CompanyName, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Required,
			validation.Match(phoneRe).Error("must be a Bangladeshi mobile number")),
	))
}

// StartResult reports the opened session and its OTP countdown.
type StartResult struct {
	SessionID   string `json:"sessionId"`
	OTPSent     bool   `json:"otpSent"`
	SecondsLeft int    `json:"secondsLeft"`
}

// VerifyOTPResult reports a successful code confirmation.
type VerifyOTPResult struct {
	Verified bool                    `json:"verified"`
	Step     models.RegistrationStep `json:"step"`
}

// NIDRequest is the identity claim submitted to the registry.
type NIDRequest struct {
	FullName        string `json:"fullName"`
	DateOfBirth     string `json:"dateOfBirth"`
	NIDNumber       string `json:"nidNumber"`
	NIDDigitType    int    `json:"nidDigitType"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	NIDFrontID      string `json:"nidFrontId"`
	NIDBackID       string `json:"nidBackId"`
}

// PacingHints tell clients how long to hold the verifying and success
// presentations. Deliberate UX pacing, not timeouts.
type PacingHints struct {
	MinVerifyingSeconds   int `json:"minVerifyingSeconds"`
	SuccessDisplaySeconds int `json:"successDisplaySeconds"`
}

// NIDResult reports the registry's verdict. A false status is retryable and
// keeps the entered data.
type NIDResult struct {
	Verified bool                    `json:"verified"`
	Failed   bool                    `json:"failed"`
	Step     models.RegistrationStep `json:"step"`
	Pacing   PacingHints             `json:"pacing"`
}

// OtherInfoRequest is the final collection step. No backend calls are made
// until finalize.
type OtherInfoRequest struct {
	AddressLine1       string               `json:"addressLine1"`
	AddressLine2       string               `json:"addressLine2"`
	City               string               `json:"city"`
	District           string               `json:"district"`
	PostCode           string               `json:"postCode"`
	TradeLicenseNumber string               `json:"tradeLicenseNumber"`
	TINNumber          string               `json:"tinNumber"`
	TaxReturnDate      string               `json:"taxReturnDate"`
	TermsAccepted      bool                 `json:"termsAccepted"`
	Documents          []models.DocumentRef `json:"documents"`
}

// FinalizeResult is the outcome of the provisioning saga.
type FinalizeResult struct {
	PartnerID       int    `json:"partnerId"`
	Token           string `json:"token,omitempty"`
	CustomerPrePaid int    `json:"customerPrePaid,omitempty"`
	AutoLoggedIn    bool   `json:"autoLoggedIn"`
	// RedirectTo is dashboard, pending-review or login.
	RedirectTo string `json:"redirectTo"`
	Message    string `json:"message,omitempty"`
}

// RegistrationService drives the wizard. Steps execute strictly in order;
// once a step's verification flag is set it can never be revisited.
type RegistrationService interface {
	Start(ctx context.Context, req StartRequest) (*StartResult, error)
	VerifyOTP(ctx context.Context, sessionID, code string) (*VerifyOTPResult, error)
	ResendOTP(ctx context.Context, sessionID string) (*StartResult, error)
	SubmitNID(ctx context.Context, sessionID string, req NIDRequest) (*NIDResult, error)
	RetryNID(ctx context.Context, sessionID string) error
	SubmitOtherInfo(ctx context.Context, sessionID string, req OtherInfoRequest) error
	AttachDocument(ctx context.Context, sessionID string, ref models.DocumentRef) error
	Finalize(ctx context.Context, sessionID string) (*FinalizeResult, error)
	GetSession(ctx context.Context, sessionID string) (*models.RegistrationSession, error)
}

// DefaultRegistrationService is the production implementation.
type DefaultRegistrationService struct {
	SessionClient *redis.Client
	Partner       *clients.PartnerClient
	Auth          *clients.AuthClient
	NID           *clients.NIDClient
	Store         token.SessionStore
	Storage       storage.StorageService
	Runs          provisionRepo.Repository
	OTPMode       models.Mode
	NIDMode       models.Mode
	Logger        *zap.Logger
}
