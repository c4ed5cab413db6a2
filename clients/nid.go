package clients

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NIDClient talks to the external national identity registry.
type NIDClient struct {
	*backend
}

// NewNIDClient returns a client for the given base URL.
func NewNIDClient(baseURL string, logger *zap.Logger) *NIDClient {
	return &NIDClient{backend: newBackend(baseURL, logger)}
}

// Verify submits the claimed identity to the registry. The digit type picks
// which identifier field carries the number. A false status is a definitive
// mismatch, not an error.
func (c *NIDClient) Verify(ctx context.Context, nidNumber string, digitType int, nameEn, dateOfBirth string) (bool, error) {
	identify := map[string]string{}
	switch digitType {
	case 10:
		identify["nid10Digit"] = nidNumber
	case 17:
		identify["nid17Digit"] = nidNumber
	default:
		return false, fmt.Errorf("unsupported NID digit type %d", digitType)
	}

	body := map[string]interface{}{
		"identify": identify,
		"verify": map[string]string{
			"nameEn":      nameEn,
			"dateOfBirth": dateOfBirth,
		},
	}

	var resp struct {
		Status bool `json:"status"`
	}
	if err := c.postJSON(ctx, "/nid/verify", body, &resp); err != nil {
		return false, err
	}
	return resp.Status, nil
}
