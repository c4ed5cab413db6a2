package checkout

import (
	"fmt"

	"telvia/models"

	"github.com/shopspring/decimal"
)

// vatRate is the statutory VAT applied to every package price.
var vatRate = decimal.NewFromFloat(0.15)

// ComputeVAT returns the VAT on a package price in whole taka, rounded half
// away from zero.
func ComputeVAT(price int64) int64 {
	return decimal.NewFromInt(price).Mul(vatRate).Round(0).IntPart()
}

// ComputeTotal is the amount charged at the gateway: price plus VAT.
func ComputeTotal(price int64) int64 {
	return price + ComputeVAT(price)
}

// Package is one purchasable plan of a product. ID is the portal-facing slug;
// BackendID is the numeric identifier the product's billing backend expects.
type Package struct {
	ID           string             `json:"id"`
	BackendID    int                `json:"backendId"`
	Service      models.ServiceType `json:"service"`
	Name         string             `json:"name"`
	Price        int64              `json:"price"`
	ValidityDays int                `json:"validityDays"`
	Description  string             `json:"description,omitempty"`
}

// packageValidityDays is how long every plan runs before renewal.
const packageValidityDays = 30

var catalog = map[models.ServiceType][]Package{
	models.ServiceHostedPBX: {
		{ID: "bronze", BackendID: 9132, Service: models.ServiceHostedPBX, Name: "Bronze", Price: 1200, ValidityDays: packageValidityDays, Description: "5 extensions, 1 concurrent call"},
		{ID: "silver", BackendID: 9133, Service: models.ServiceHostedPBX, Name: "Silver", Price: 2500, ValidityDays: packageValidityDays, Description: "15 extensions, 5 concurrent calls"},
		{ID: "gold", BackendID: 9134, Service: models.ServiceHostedPBX, Name: "Gold", Price: 5000, ValidityDays: packageValidityDays, Description: "40 extensions, 15 concurrent calls"},
		{ID: "platinum", BackendID: 9135, Service: models.ServiceHostedPBX, Name: "Platinum", Price: 9000, ValidityDays: packageValidityDays, Description: "Unlimited extensions, 40 concurrent calls"},
	},
	models.ServiceBulkSMS: {
		{ID: "sms-5k", BackendID: 7101, Service: models.ServiceBulkSMS, Name: "SMS 5K", Price: 1750, ValidityDays: packageValidityDays, Description: "5,000 non-masking SMS"},
		{ID: "sms-25k", BackendID: 7102, Service: models.ServiceBulkSMS, Name: "SMS 25K", Price: 8250, ValidityDays: packageValidityDays, Description: "25,000 non-masking SMS"},
		{ID: "sms-100k", BackendID: 7103, Service: models.ServiceBulkSMS, Name: "SMS 100K", Price: 30000, ValidityDays: packageValidityDays, Description: "100,000 non-masking SMS"},
	},
	models.ServiceVoiceBroadcast: {
		{ID: "vb-starter", BackendID: 8301, Service: models.ServiceVoiceBroadcast, Name: "Starter", Price: 2000, ValidityDays: packageValidityDays, Description: "10,000 OBD minutes"},
		{ID: "vb-business", BackendID: 8302, Service: models.ServiceVoiceBroadcast, Name: "Business", Price: 7500, ValidityDays: packageValidityDays, Description: "50,000 OBD minutes"},
	},
	models.ServiceContactCenter: {
		{ID: "cc-team", BackendID: 6501, Service: models.ServiceContactCenter, Name: "Team", Price: 6000, ValidityDays: packageValidityDays, Description: "10 agent seats"},
		{ID: "cc-enterprise", BackendID: 6502, Service: models.ServiceContactCenter, Name: "Enterprise", Price: 18000, ValidityDays: packageValidityDays, Description: "50 agent seats"},
	},
}

// Catalog returns the plans of one product.
func Catalog(service models.ServiceType) ([]Package, error) {
	if !models.IsKnownServiceType(service) {
		return nil, fmt.Errorf("unknown service type %q", service)
	}
	return catalog[service], nil
}

// LookupPackage resolves a package slug within a product.
func LookupPackage(service models.ServiceType, packageID string) (*Package, error) {
	plans, err := Catalog(service)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].ID == packageID {
			return &plans[i], nil
		}
	}
	return nil, fmt.Errorf("unknown package %q for service %q", packageID, service)
}
