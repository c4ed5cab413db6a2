package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telvia/clients"
	"telvia/config"
	"telvia/cron"
	"telvia/database"
	notificationRepo "telvia/database/repository/notification"
	provisionRepo "telvia/database/repository/provision"
	"telvia/handlers"
	"telvia/middleware"
	"telvia/models"
	"telvia/routes"
	"telvia/services/checkout"
	"telvia/services/registration"
	"telvia/services/storage"
	"telvia/services/token"
	"telvia/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func modeFor(bypass bool) models.Mode {
	if bypass {
		return models.ModeSimulated
	}
	return models.ModeLive
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	cld, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage: %v", err)
	}
	storageService := storage.NewStorageService(cld, config.AppConfig.CloudinaryName, config.AppConfig.CloudinaryAdminKey)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	runsRepo := provisionRepo.NewMongoProvisionRepo()
	notifRepo := notificationRepo.NewMongoNotificationRepo()

	// backend clients.
	partnerClient := clients.NewPartnerClient(config.AppConfig.PartnerServiceURL, logger)
	authClient := clients.NewAuthClient(config.AppConfig.AuthServiceURL, logger)
	nidClient := clients.NewNIDClient(config.AppConfig.NIDServiceURL, logger)
	paymentClient := clients.NewPaymentClient(config.AppConfig.PaymentGatewayURL, logger)
	pbxClient := clients.NewPBXClient(config.AppConfig.PBXServiceURL, logger)
	packageClient := clients.NewPackageClient(map[models.ServiceType]string{
		models.ServiceBulkSMS:        config.AppConfig.SMSPackageURL,
		models.ServiceHostedPBX:      config.AppConfig.PBXPackageURL,
		models.ServiceVoiceBroadcast: config.AppConfig.VoiceBroadcastPackageURL,
		models.ServiceContactCenter:  config.AppConfig.ContactCenterPackageURL,
	}, logger)

	// services.
	sessionStore := token.NewRedisSessionStore(utils.GetAuthCacheClient())

	registrationService := &registration.DefaultRegistrationService{
		SessionClient: utils.GetSessionCacheClient(),
		Partner:       partnerClient,
		Auth:          authClient,
		NID:           nidClient,
		Store:         sessionStore,
		Storage:       storageService,
		Runs:          runsRepo,
		OTPMode:       modeFor(config.AppConfig.OTPBypass),
		NIDMode:       modeFor(config.AppConfig.NIDBypass),
		Logger:        logger,
	}

	scheduler := cron.NewScheduler()
	activator := &checkout.DefaultActivator{
		Packages:      packageClient,
		PBX:           pbxClient,
		Auth:          authClient,
		Partner:       partnerClient,
		Runs:          runsRepo,
		Notifications: notifRepo,
		Scheduler:     scheduler,
		Logger:        logger,
	}

	checkoutService := &checkout.DefaultCheckoutService{
		Partner:       partnerClient,
		Payment:       paymentClient,
		Activator:     activator,
		Pending:       checkout.NewRedisPendingStore(utils.GetPendingCacheClient()),
		PaymentMode:   modeFor(config.AppConfig.PaymentBypass),
		PortalBaseURL: config.AppConfig.PortalBaseURL,
		Logger:        logger,
	}

	// handlers.
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	authHandler := handlers.NewAuthHandler(authClient, sessionStore, logger)
	partnerHandler := handlers.NewPartnerHandler(partnerClient, packageClient, runsRepo, notifRepo)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	paymentHandler := handlers.NewPaymentHandler(checkoutService, config.AppConfig.PortalBaseURL, logger)
	documentHandler := handlers.NewDocumentHandler(storageService, registrationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		SessionStore: sessionStore,

		// Registration wizard endpoints.
		StartRegistrationHandler: registrationHandler.StartHandler,
		VerifyOTPHandler:         registrationHandler.VerifyOTPHandler,
		ResendOTPHandler:         registrationHandler.ResendOTPHandler,
		SubmitNIDHandler:         registrationHandler.SubmitNIDHandler,
		RetryNIDHandler:          registrationHandler.RetryNIDHandler,
		SubmitOtherInfoHandler:   registrationHandler.SubmitOtherInfoHandler,
		AttachDocumentHandler:    registrationHandler.AttachDocumentHandler,
		FinalizeHandler:          registrationHandler.FinalizeHandler,
		GetRegistrationHandler:   registrationHandler.GetSessionHandler,
		UploadDocumentHandler:    documentHandler.UploadHandler,

		// Auth endpoints.
		LoginHandler:   authHandler.LoginHandler,
		LogoutHandler:  authHandler.LogoutHandler,
		SessionHandler: authHandler.SessionHandler,

		// Partner endpoints.
		ProfileHandler:              partnerHandler.ProfileHandler,
		PurchasesHandler:            partnerHandler.PurchasesHandler,
		RunsHandler:                 partnerHandler.RunsHandler,
		NotificationsHandler:        partnerHandler.NotificationsHandler,
		MarkNotificationReadHandler: partnerHandler.MarkNotificationReadHandler,

		// Checkout endpoints.
		PackagesHandler: checkoutHandler.PackagesHandler,
		PurchaseHandler: checkoutHandler.PurchaseHandler,

		// Payment gateway callbacks.
		PaymentSuccessHandler: paymentHandler.SuccessHandler,
		PaymentFailHandler:    paymentHandler.FailHandler,
		PaymentCancelHandler:  paymentHandler.CancelHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background worker for package-expiry reminders.
	cron.InitReminderWorker(notifRepo)

	// Periodic Redis/Mongo health snapshots.
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, []*redis.Client{
		utils.GetSessionCacheClient(),
		utils.GetAuthCacheClient(),
		utils.GetPendingCacheClient(),
	}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
