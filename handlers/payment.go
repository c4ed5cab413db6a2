package handlers

import (
	"errors"
	"net/http"

	"telvia/models"
	"telvia/services/checkout"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler receives the gateway's browser returns. The gateway posts a
// form on some deployments and redirects with query parameters on others, so
// both shapes are normalized before the purchase is completed.
type PaymentHandler struct {
	Svc           checkout.CheckoutService
	PortalBaseURL string
	Logger        *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler instance.
func NewPaymentHandler(svc checkout.CheckoutService, portalBaseURL string, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Svc: svc, PortalBaseURL: portalBaseURL, Logger: logger}
}

func (h *PaymentHandler) callbackParams(c *gin.Context) models.CallbackParams {
	param := func(names ...string) string {
		for _, name := range names {
			if v := c.PostForm(name); v != "" {
				return v
			}
			if v := c.Query(name); v != "" {
				return v
			}
		}
		return ""
	}
	return models.CallbackParams{
		TransactionID: param("tran_id", "tranId"),
		Status:        param("status"),
		ValidationID:  param("val_id", "valId"),
	}
}

// SuccessHandler consumes the pending purchase and activates the service,
// then sends the browser to the receipt page. A replayed callback redirects
// without provisioning again.
func (h *PaymentHandler) SuccessHandler(c *gin.Context) {
	params := h.callbackParams(c)

	pending, err := h.Svc.CompleteFromCallback(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, checkout.ErrAlreadyConsumed) {
			c.Redirect(http.StatusSeeOther, h.PortalBaseURL+"/pg/success?tran_id="+params.TransactionID)
			return
		}
		if errors.Is(err, checkout.ErrActivationFailed) {
			// The payment went through. The user still gets the receipt;
			// the provisioning flag tells the page to show the failure
			// notice instead of the fail page's "payment declined" copy.
			h.Logger.Error("activation failed for paid purchase",
				zap.String("tranId", params.TransactionID), zap.Error(err))
			loc := h.PortalBaseURL + "/pg/success?tran_id=" + params.TransactionID + "&provisioning=failed"
			if pending != nil {
				loc += "&service=" + string(pending.ServiceType)
			}
			c.Redirect(http.StatusSeeOther, loc)
			return
		}
		h.Logger.Warn("payment success callback could not complete",
			zap.String("tranId", params.TransactionID), zap.Error(err))
		c.Redirect(http.StatusSeeOther, h.PortalBaseURL+"/pg/fail?tran_id="+params.TransactionID)
		return
	}

	h.Logger.Info("payment completed",
		zap.String("tranId", params.TransactionID),
		zap.Int("partnerId", pending.PartnerID),
		zap.String("service", string(pending.ServiceType)))
	// The service name lets the receipt page render the right portal panel.
	c.Redirect(http.StatusSeeOther, h.PortalBaseURL+"/pg/success?tran_id="+params.TransactionID+
		"&service="+string(pending.ServiceType))
}

// FailHandler discards the pending purchase after a failed payment.
func (h *PaymentHandler) FailHandler(c *gin.Context) {
	params := h.callbackParams(c)
	if err := h.Svc.AbandonFromCallback(c.Request.Context(), params); err != nil {
		h.Logger.Warn("failed to discard pending purchase",
			zap.String("tranId", params.TransactionID), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, h.PortalBaseURL+"/pg/fail?tran_id="+params.TransactionID)
}

// CancelHandler discards the pending purchase after a cancelled payment.
func (h *PaymentHandler) CancelHandler(c *gin.Context) {
	params := h.callbackParams(c)
	if err := h.Svc.AbandonFromCallback(c.Request.Context(), params); err != nil {
		h.Logger.Warn("failed to discard pending purchase",
			zap.String("tranId", params.TransactionID), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, h.PortalBaseURL+"/pg/cancel?tran_id="+params.TransactionID)
}
