package clients

import (
	"context"
	"fmt"

	"telvia/models"

	"go.uber.org/zap"
)

// PackageClient talks to the per-product package/billing backends. Each
// product runs its own deployment, so every service type has its own base URL.
type PackageClient struct {
	backends map[models.ServiceType]*backend
}

// NewPackageClient wires one backend per configured service type.
func NewPackageClient(baseURLs map[models.ServiceType]string, logger *zap.Logger) *PackageClient {
	backends := make(map[models.ServiceType]*backend, len(baseURLs))
	for service, url := range baseURLs {
		backends[service] = newBackend(url, logger)
	}
	return &PackageClient{backends: backends}
}

func (c *PackageClient) backendFor(service models.ServiceType) (*backend, error) {
	b, ok := c.backends[service]
	if !ok {
		return nil, fmt.Errorf("no package backend configured for service %q", service)
	}
	return b, nil
}

// Purchase creates the purchase record on the product's billing backend.
func (c *PackageClient) Purchase(ctx context.Context, service models.ServiceType, req models.PurchaseRequest) error {
	b, err := c.backendFor(service)
	if err != nil {
		return err
	}
	return b.postJSON(ctx, "/package/purchase", req, nil)
}

// PurchasesForPartner lists the partner's purchase history for one product.
func (c *PackageClient) PurchasesForPartner(ctx context.Context, service models.ServiceType, partnerID int) ([]models.PurchaseHistoryEntry, error) {
	b, err := c.backendFor(service)
	if err != nil {
		return nil, err
	}
	var entries []models.PurchaseHistoryEntry
	body := map[string]int{"idPartner": partnerID}
	if err := b.postJSONIdempotent(ctx, "/package/getAllPurchasePartnerWise", body, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
