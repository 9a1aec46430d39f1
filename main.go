// File: medibook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibook/config"
	"medibook/cron"
	"medibook/gateway"
	"medibook/handlers"
	"medibook/middleware"
	"medibook/routes"
	"medibook/services/booking"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionCache()
	utils.InitAuthCache()
	utils.StartHealthMonitor([]*redis.Client{
		utils.GetSessionCacheClient(),
		utils.GetAuthCacheClient(),
	})

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Upstream REST collaborators.
	apiBase := config.AppConfig.MedicalAPIBaseURL
	scheduleClient := gateway.NewScheduleClient(apiBase)
	appointmentClient := gateway.NewAppointmentClient(apiBase)
	catalogClient := gateway.NewCatalogClient(apiBase)
	paymentClient := gateway.NewPaymentClient(config.AppConfig.PaymentGatewayBaseURL)

	// Background reminder queue + worker.
	reminderQueue := cron.NewReminderQueue()
	cron.InitReminderWorker()

	flowService := &booking.DefaultFlowService{
		Store:      booking.NewRedisSessionStore(utils.GetSessionCacheClient()),
		Fetcher:    scheduleClient,
		Submitter:  appointmentClient,
		Payments:   paymentClient,
		Catalog:    catalogClient,
		Reminders:  reminderQueue,
		Clock:      booking.NewClock(),
		Logger:     logger,
		DefaultFee: config.AppConfig.DefaultVisitFee,
	}

	bookingHandler := handlers.NewBookingHandler(flowService, logger)
	authHandler := handlers.NewAuthHandler(logger)

	// Register routes.
	routes.RegisterRoutes(router, bookingHandler, authHandler)

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
