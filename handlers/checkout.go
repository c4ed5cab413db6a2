package handlers

import (
	"net/http"

	"telvia/middleware"
	"telvia/models"
	"telvia/services/checkout"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler exposes the package catalog and the purchase flow.
type CheckoutHandler struct {
	Svc checkout.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler instance.
func NewCheckoutHandler(svc checkout.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{Svc: svc}
}

// PackagesHandler lists the plans of one product with their VAT-inclusive
// totals.
func (h *CheckoutHandler) PackagesHandler(c *gin.Context) {
	service := models.ServiceType(c.Param("service"))
	plans, err := checkout.Catalog(service)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	type pricedPackage struct {
		checkout.Package
		VAT   int64 `json:"vat"`
		Total int64 `json:"total"`
	}
	priced := make([]pricedPackage, 0, len(plans))
	for _, p := range plans {
		priced = append(priced, pricedPackage{
			Package: p,
			VAT:     checkout.ComputeVAT(p.Price),
			Total:   checkout.ComputeTotal(p.Price),
		})
	}
	c.JSON(http.StatusOK, gin.H{"packages": priced})
}

// PurchaseHandler starts a purchase for the authenticated partner.
func (h *CheckoutHandler) PurchaseHandler(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Svc.Checkout(c.Request.Context(), claims, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
