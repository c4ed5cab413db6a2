package handlers

import (
	"net/http"

	"telvia/clients"
	notificationRepo "telvia/database/repository/notification"
	provisionRepo "telvia/database/repository/provision"
	"telvia/middleware"
	"telvia/models"

	"github.com/gin-gonic/gin"
)

// PartnerHandler serves the authenticated partner's own data: profile,
// purchase history, notifications and provisioning runs.
type PartnerHandler struct {
	Partner       *clients.PartnerClient
	Packages      *clients.PackageClient
	Runs          provisionRepo.Repository
	Notifications notificationRepo.Repository
}

// NewPartnerHandler creates a new PartnerHandler instance.
func NewPartnerHandler(partner *clients.PartnerClient, packages *clients.PackageClient, runs provisionRepo.Repository, notifications notificationRepo.Repository) *PartnerHandler {
	return &PartnerHandler{Partner: partner, Packages: packages, Runs: runs, Notifications: notifications}
}

// ProfileHandler returns the partner record from the partner backend.
func (h *PartnerHandler) ProfileHandler(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	partner, err := h.Partner.Get(c.Request.Context(), claims.PartnerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

// PurchasesHandler lists the partner's purchase history for one product.
func (h *PartnerHandler) PurchasesHandler(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	service := models.ServiceType(c.Param("service"))
	if !models.IsKnownServiceType(service) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service type"})
		return
	}
	entries, err := h.Packages.PurchasesForPartner(c.Request.Context(), service, claims.PartnerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": entries})
}

// RunsHandler lists the partner's provisioning runs, newest first.
func (h *PartnerHandler) RunsHandler(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	runs, err := h.Runs.ListByPartner(c.Request.Context(), claims.PartnerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// NotificationsHandler lists the partner's dashboard notifications.
func (h *PartnerHandler) NotificationsHandler(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	notifications, err := h.Notifications.ListByPartner(c.Request.Context(), claims.PartnerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationReadHandler flags one notification as read.
func (h *PartnerHandler) MarkNotificationReadHandler(c *gin.Context) {
	if err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked read"})
}
