package routes

import (
	"net/http"
	"time"

	"telvia/handlers"
	"telvia/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRegistrationRoutes registers the signup wizard endpoints. The OTP
// send paths carry their own tighter rate limit.
func RegisterRegistrationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/registration")
	{
		api.POST("/start", middleware.OTPRateLimitMiddleware(), hb.StartRegistrationHandler)
		api.POST("/:sessionID/verify-otp", hb.VerifyOTPHandler)
		api.POST("/:sessionID/resend-otp", middleware.OTPRateLimitMiddleware(), hb.ResendOTPHandler)
		api.POST("/:sessionID/nid", hb.SubmitNIDHandler)
		api.POST("/:sessionID/nid/retry", hb.RetryNIDHandler)
		api.POST("/:sessionID/other-info", hb.SubmitOtherInfoHandler)
		api.POST("/:sessionID/documents", hb.UploadDocumentHandler)
		api.POST("/:sessionID/documents/attach", hb.AttachDocumentHandler)
		api.POST("/:sessionID/submit", hb.FinalizeHandler)
		api.GET("/:sessionID", hb.GetRegistrationHandler)
	}
}

// RegisterAuthRoutes registers login and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.AuthMiddleware(hb.SessionStore))
		api.POST("/logout", hb.LogoutHandler)
		api.GET("/session", hb.SessionHandler)
	}
}

// RegisterPartnerRoutes registers the authenticated partner's own data.
func RegisterPartnerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/partner")
	{
		api.Use(middleware.AuthMiddleware(hb.SessionStore))
		api.GET("/profile", hb.ProfileHandler)
		api.GET("/purchases/:service", hb.PurchasesHandler)
		api.GET("/provision-runs", hb.RunsHandler)
		api.GET("/notifications", hb.NotificationsHandler)
		api.PUT("/notifications/:id/read", hb.MarkNotificationReadHandler)
	}
}

// RegisterCheckoutRoutes registers the catalog and purchase endpoints.
func RegisterCheckoutRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/checkout")
	{
		api.GET("/packages/:service", hb.PackagesHandler)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(hb.SessionStore))
		protected.POST("", hb.PurchaseHandler)
	}
}

// RegisterPaymentRoutes registers the gateway's browser-return endpoints.
// The gateway calls these without portal credentials, so they stay public.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payment")
	{
		api.POST("/success", hb.PaymentSuccessHandler)
		api.GET("/success", hb.PaymentSuccessHandler)
		api.POST("/fail", hb.PaymentFailHandler)
		api.GET("/fail", hb.PaymentFailHandler)
		api.POST("/cancel", hb.PaymentCancelHandler)
		api.GET("/cancel", hb.PaymentCancelHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Telvia"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterRegistrationRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterPartnerRoutes(r, hb)
	RegisterCheckoutRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterHealthRoute(r)
}
