package models

import "time"

// PendingState tags a pending purchase record so the one-shot handoff
// contract is explicit rather than implied by key presence.
type PendingState string

const (
	PendingStatePending  PendingState = "pending"
	PendingStateConsumed PendingState = "consumed"
)

// PendingPurchase is the intent stashed immediately before the browser is
// redirected to the payment gateway. The callback consumes it exactly once;
// consumption is what makes provisioning idempotent against reloads.
type PendingPurchase struct {
	State        PendingState `json:"state"`
	ServiceType  ServiceType  `json:"serviceType"`
	PartnerID    int          `json:"partnerId"`
	Email        string       `json:"email"`
	PackageID    string       `json:"packageId"`
	PackageIDInt int          `json:"packageIdInt"`
	PackageName  string       `json:"packageName"`
	Price        int64        `json:"price"`
	CreatedAt    time.Time    `json:"createdAt"`
	ConsumedAt   time.Time    `json:"consumedAt,omitempty"`
}

// PurchaseRequest is the payload for POST /package/purchase on the
// product-specific billing backend.
type PurchaseRequest struct {
	IDPackage         int    `json:"idPackage"`
	IDPartner         int    `json:"idPartner"`
	Price             int64  `json:"price"`
	VAT               int64  `json:"vat"`
	Total             int64  `json:"total"`
	Validity          int    `json:"validity"`
	Status            string `json:"status"`
	AutoRenewalStatus bool   `json:"autoRenewalStatus"`
}

// PurchaseHistoryEntry is a server-owned purchase record, read-only here.
type PurchaseHistoryEntry struct {
	ID           int    `json:"id"`
	IDPackage    int    `json:"idPackage"`
	IDPartner    int    `json:"idPartner"`
	PackageName  string `json:"packageName"`
	PurchaseDate string `json:"purchaseDate"`
	ExpireDate   string `json:"expireDate"`
	Price        int64  `json:"price"`
	VAT          int64  `json:"vat"`
	AIT          int64  `json:"ait"`
	Status       string `json:"status"`
}

// Notification is written by background workers (e.g. expiry reminders) and
// surfaced on the dashboard.
type Notification struct {
	ID        string    `json:"id" bson:"id"`
	PartnerID int       `json:"partnerId" bson:"partnerId"`
	Type      string    `json:"type" bson:"type"`
	Message   string    `json:"message" bson:"message"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
