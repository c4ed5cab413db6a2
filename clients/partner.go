package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"telvia/models"

	"go.uber.org/zap"
)

// PartnerClient talks to the partner backend: duplicate validation, the OTP
// exchange, account creation and document attachment.
type PartnerClient struct {
	*backend
}

// NewPartnerClient returns a client for the given base URL.
func NewPartnerClient(baseURL string, logger *zap.Logger) *PartnerClient {
	return &PartnerClient{backend: newBackend(baseURL, logger)}
}

// Validate asks the backend to reject duplicate company name, phone or email.
// A duplicate comes back as a 400 whose message names the offending field;
// the registration service classifies it.
func (c *PartnerClient) Validate(ctx context.Context, partnerName, telephone, email string) error {
	body := map[string]string{
		"partnerName": partnerName,
		"telephone":   telephone,
		"email":       email,
	}
	return c.postJSON(ctx, "/partner/validate", body, nil)
}

// SendOTP requests a one-time code for the phone number.
func (c *PartnerClient) SendOTP(ctx context.Context, phone string) error {
	return c.postJSON(ctx, "/otp/send", map[string]string{"id": phone}, nil)
}

// VerifyOTP confirms the code the applicant received.
func (c *PartnerClient) VerifyOTP(ctx context.Context, phone, otp string) error {
	body := map[string]string{"phoneNumber": phone, "otp": otp}
	return c.postJSON(ctx, "/otp/verify", body, nil)
}

// Create registers the partner record and returns its numeric identifier.
// Backends answer with either idPartner or id; zero means the backend did
// not hand one back.
func (c *PartnerClient) Create(ctx context.Context, req models.CreatePartnerRequest) (int, error) {
	var resp struct {
		IDPartner int `json:"idPartner"`
		ID        int `json:"id"`
	}
	if err := c.postJSON(ctx, "/partner/create", req, &resp); err != nil {
		return 0, err
	}
	if resp.IDPartner != 0 {
		return resp.IDPartner, nil
	}
	return resp.ID, nil
}

// Get fetches the partner profile. Read-only, so transient failures retry.
func (c *PartnerClient) Get(ctx context.Context, partnerID int) (*models.Partner, error) {
	var partner models.Partner
	body := map[string]int{"idPartner": partnerID}
	if err := c.postJSONIdempotent(ctx, "/partner/get", body, &partner); err != nil {
		return nil, err
	}
	return &partner, nil
}

// Document is one file forwarded to the partner backend.
type Document struct {
	Field    string
	FileName string
	Content  io.Reader
}

// AttachDocuments submits the collected files as multipart form data bound
// to the partner id, authorized by the provisioning bearer token.
func (c *PartnerClient) AttachDocuments(ctx context.Context, bearer string, partnerID int, docs []Document) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("idPartner", strconv.Itoa(partnerID)); err != nil {
		return fmt.Errorf("failed to write partner id field: %w", err)
	}
	for _, doc := range docs {
		part, err := writer.CreateFormFile(doc.Field, doc.FileName)
		if err != nil {
			return fmt.Errorf("failed to create form file %s: %w", doc.Field, err)
		}
		if _, err := io.Copy(part, doc.Content); err != nil {
			return fmt.Errorf("failed to copy document %s: %w", doc.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/partner/documents", &buf)
	if err != nil {
		return fmt.Errorf("failed to build document request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)

	return c.do(req, "/partner/documents", nil)
}
