// Package clients holds the HTTP collaborators of the portal: the partner,
// auth, NID-registry, package/billing, PBX-provisioning and payment-gateway
// backends. Everything here is plain JSON (or multipart) request/response.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx backend response with its message, when one was sent.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// backend is the shared plumbing for one collaborator base URL.
type backend struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func newBackend(baseURL string, logger *zap.Logger) *backend {
	return &backend{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// postJSON issues a single POST with a JSON body and decodes the response
// into out (when non-nil). Non-2xx responses become *APIError.
func (b *backend) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return b.do(req, path, out)
}

// postJSONIdempotent retries transient failures (network errors, 5xx) with
// exponential backoff. Only safe for read-style calls.
func (b *backend) postJSONIdempotent(ctx context.Context, path string, body, out interface{}) error {
	operation := func() error {
		err := b.postJSON(ctx, path, body, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		// 4xx responses are definitive; retrying cannot change them.
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, policy)
}

func (b *backend) do(req *http.Request, path string, out interface{}) error {
	started := time.Now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.logger.Warn("backend call failed",
			zap.String("path", path), zap.Error(err))
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	b.logger.Debug("backend call",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(started)))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: extractMessage(raw)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// extractMessage pulls the human-readable message out of an error body.
// The backends answer either {"message": "..."} or a bare string.
func extractMessage(raw []byte) string {
	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil {
		if structured.Message != "" {
			return structured.Message
		}
		if structured.Error != "" {
			return structured.Error
		}
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	return string(bytes.TrimSpace(raw))
}
