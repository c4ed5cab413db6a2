package handlers

import (
	"net/http"

	"telvia/models"
	"telvia/services/registration"

	"github.com/gin-gonic/gin"
)

// RegistrationHandler exposes the signup wizard endpoints.
type RegistrationHandler struct {
	Svc registration.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler instance.
func NewRegistrationHandler(svc registration.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{Svc: svc}
}

// StartHandler opens a wizard session and sends the first OTP.
func (h *RegistrationHandler) StartHandler(c *gin.Context) {
	var req registration.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Svc.Start(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// VerifyOTPHandler confirms the code for a session.
func (h *RegistrationHandler) VerifyOTPHandler(c *gin.Context) {
	var req struct {
		OTP string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Svc.VerifyOTP(c.Request.Context(), c.Param("sessionID"), req.OTP)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ResendOTPHandler reissues the code once the countdown has expired.
func (h *RegistrationHandler) ResendOTPHandler(c *gin.Context) {
	result, err := h.Svc.ResendOTP(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitNIDHandler submits the identity claim to the national registry.
func (h *RegistrationHandler) SubmitNIDHandler(c *gin.Context) {
	var req registration.NIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Svc.SubmitNID(c.Request.Context(), c.Param("sessionID"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RetryNIDHandler re-arms the NID step after a mismatch.
func (h *RegistrationHandler) RetryNIDHandler(c *gin.Context) {
	if err := h.Svc.RetryNID(c.Request.Context(), c.Param("sessionID")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "NID step reset"})
}

// SubmitOtherInfoHandler stores the final collection step.
func (h *RegistrationHandler) SubmitOtherInfoHandler(c *gin.Context) {
	var req registration.OtherInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Svc.SubmitOtherInfo(c.Request.Context(), c.Param("sessionID"), req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "information saved"})
}

// AttachDocumentHandler records a staged upload on the session.
func (h *RegistrationHandler) AttachDocumentHandler(c *gin.Context) {
	var ref models.DocumentRef
	if err := c.ShouldBindJSON(&ref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Svc.AttachDocument(c.Request.Context(), c.Param("sessionID"), ref); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document attached"})
}

// FinalizeHandler runs the provisioning saga.
func (h *RegistrationHandler) FinalizeHandler(c *gin.Context) {
	result, err := h.Svc.Finalize(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSessionHandler exposes the wizard state. The chosen password never
// leaves the server.
func (h *RegistrationHandler) GetSessionHandler(c *gin.Context) {
	sess, err := h.Svc.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	view := *sess
	view.Personal.Password = ""
	c.JSON(http.StatusOK, view)
}
