package clients

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// PBXClient talks to the hosted-PBX provisioning backend.
type PBXClient struct {
	*backend
}

// NewPBXClient returns a client for the given base URL.
func NewPBXClient(baseURL string, logger *zap.Logger) *PBXClient {
	return &PBXClient{backend: newBackend(baseURL, logger)}
}

// CreateDomain creates the tenant domain and returns its identifier.
func (c *PBXClient) CreateDomain(ctx context.Context, name string) (string, error) {
	var resp struct {
		ID   string `json:"id"`
		UUID string `json:"uuid"`
	}
	if err := c.postJSON(ctx, "/domain/create", map[string]string{"name": name}, &resp); err != nil {
		return "", err
	}
	if resp.UUID != "" {
		return resp.UUID, nil
	}
	if resp.ID != "" {
		return resp.ID, nil
	}
	return "", fmt.Errorf("domain create returned no identifier")
}

// CreateGateway creates the default outbound gateway for a domain.
func (c *PBXClient) CreateGateway(ctx context.Context, domainID string) (string, error) {
	var resp struct {
		ID   string `json:"id"`
		UUID string `json:"uuid"`
	}
	body := map[string]string{"domainId": domainID, "name": "default-outbound"}
	if err := c.postJSON(ctx, "/gateway/create", body, &resp); err != nil {
		return "", err
	}
	if resp.UUID != "" {
		return resp.UUID, nil
	}
	if resp.ID != "" {
		return resp.ID, nil
	}
	return "", fmt.Errorf("gateway create returned no identifier")
}

// CreateRoute creates the default route against a gateway.
func (c *PBXClient) CreateRoute(ctx context.Context, gatewayID string) error {
	body := map[string]string{"gatewayId": gatewayID, "name": "default"}
	return c.postJSON(ctx, "/route/create", body, nil)
}
