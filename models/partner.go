package models

// Billing modes carried on the partner record. The value decides both the
// post-login landing page and whether checkout requires a gateway payment.
const (
	BillingPrepaid  = 1
	BillingPostpaid = 2
)

// Partner is the business/customer account record owned by the partner
// backend. The portal creates it once at registration and otherwise only
// reads or updates it.
type Partner struct {
	IDPartner       int    `json:"idPartner"`
	PartnerName     string `json:"partnerName"`
	Email           string `json:"email"`
	Telephone       string `json:"telephone"`
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2,omitempty"`
	City            string `json:"city"`
	District        string `json:"district"`
	PostCode        string `json:"postCode"`
	CustomerPrePaid int    `json:"customerPrePaid"`
}

// CreatePartnerRequest is the payload for POST /partner/create.
type CreatePartnerRequest struct {
	PartnerName        string `json:"partnerName"`
	Email              string `json:"email"`
	Telephone          string `json:"telephone"`
	Password           string `json:"password"`
	CustomerPrePaid    int    `json:"customerPrePaid"`
	NIDNumber          string `json:"nidNumber"`
	TradeLicenseNumber string `json:"tradeLicenseNumber"`
	TINNumber          string `json:"tinNumber"`
	TaxReturnDate      string `json:"taxReturnDate,omitempty"`
	AddressLine1       string `json:"addressLine1"`
	AddressLine2       string `json:"addressLine2,omitempty"`
	City               string `json:"city"`
	District           string `json:"district"`
	PostCode           string `json:"postCode"`
}
