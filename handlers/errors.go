package handlers

import (
	"errors"
	"net/http"

	"telvia/clients"
	"telvia/services/checkout"
	"telvia/services/registration"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps service-layer failures onto HTTP responses. Backend
// errors pass through with their original status so the browser sees what
// the upstream said.
func writeServiceError(c *gin.Context, err error) {
	var fieldErrs registration.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
		return
	}

	switch {
	case errors.Is(err, registration.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "registration session not found or expired"})
	case errors.Is(err, registration.ErrStepLocked):
		c.JSON(http.StatusConflict, gin.H{"error": "this step is already verified and cannot be repeated"})
	case errors.Is(err, registration.ErrStepNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": "previous steps must be completed first"})
	case errors.Is(err, registration.ErrNotSubmittable):
		c.JSON(http.StatusConflict, gin.H{"error": "the registration is not ready for submission"})
	case errors.Is(err, registration.ErrResendNotReady):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "the resend countdown has not finished"})
	case errors.Is(err, registration.ErrPartnerIDMissing):
		c.JSON(http.StatusBadGateway, gin.H{"error": registration.ErrPartnerIDMissing.Error()})
	case errors.Is(err, checkout.ErrPaymentMethodRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": checkout.ErrPaymentMethodRequired.Error()})
	case errors.Is(err, clients.ErrGatewayResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": "the payment gateway could not start the transaction"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
