package models

// PaymentOrder is the request for POST /payment/ssl-initiate on the external
// gateway. Customer fields come from the partner backend's on-file profile.
type PaymentOrder struct {
	TransactionID   string `json:"tranId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	PaymentMethod   string `json:"paymentMethod"`
	ProductName     string `json:"productName"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
	SuccessURL      string `json:"successUrl"`
	FailURL         string `json:"failUrl"`
	CancelURL       string `json:"cancelUrl"`
}

// GatewayResponse is what the gateway answers at initiation. Some deployments
// return redirectUrl, others GatewayPageURL; either must parse as a URL.
type GatewayResponse struct {
	Status         string `json:"status"`
	RedirectURL    string `json:"redirectUrl"`
	GatewayPageURL string `json:"GatewayPageURL"`
	FailedReason   string `json:"failedreason"`
}

// CallbackParams are the normalized parameters of the gateway's browser
// return, whether it arrives as a POST form or GET query.
type CallbackParams struct {
	TransactionID string `json:"tranId"`
	Status        string `json:"status"`
	ValidationID  string `json:"valId"`
}
