package handlers

import (
	"telvia/services/token"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	SessionStore token.SessionStore

	// Registration wizard endpoints.
	StartRegistrationHandler gin.HandlerFunc
	VerifyOTPHandler         gin.HandlerFunc
	ResendOTPHandler         gin.HandlerFunc
	SubmitNIDHandler         gin.HandlerFunc
	RetryNIDHandler          gin.HandlerFunc
	SubmitOtherInfoHandler   gin.HandlerFunc
	AttachDocumentHandler    gin.HandlerFunc
	FinalizeHandler          gin.HandlerFunc
	GetRegistrationHandler   gin.HandlerFunc
	UploadDocumentHandler    gin.HandlerFunc

	// Auth endpoints.
	LoginHandler   gin.HandlerFunc
	LogoutHandler  gin.HandlerFunc
	SessionHandler gin.HandlerFunc

	// Partner endpoints.
	ProfileHandler              gin.HandlerFunc
	PurchasesHandler            gin.HandlerFunc
	RunsHandler                 gin.HandlerFunc
	NotificationsHandler        gin.HandlerFunc
	MarkNotificationReadHandler gin.HandlerFunc

	// Checkout endpoints.
	PackagesHandler gin.HandlerFunc
	PurchaseHandler gin.HandlerFunc

	// Payment gateway callbacks.
	PaymentSuccessHandler gin.HandlerFunc
	PaymentFailHandler    gin.HandlerFunc
	PaymentCancelHandler  gin.HandlerFunc
}
