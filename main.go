package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lingerie-shop-server/internal/booking"
	"lingerie-shop-server/internal/config"
	"lingerie-shop-server/internal/logger"
	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/routes"
	"lingerie-shop-server/internal/services"
)

func main() {
	// Load environment variables; a missing .env is fine in production
	// where the environment is set by the platform.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Domain services
	bookingSvc := booking.NewService(db, cfg.Booking, zlog)
	paymentSvc := services.NewPaymentService(cfg.Razorpay, zlog)
	logisticsSvc := services.NewLogisticsService(cfg.Shiprocket, zlog)
	whatsappSvc := services.NewWhatsAppService(cfg.Twilio, zlog)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Deps{
		DB:        db,
		Cfg:       cfg,
		Logger:    zlog,
		Booking:   bookingSvc,
		Payment:   paymentSvc,
		Logistics: logisticsSvc,
		WhatsApp:  whatsappSvc,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background sweeper that frees abandoned slot locks.
	reclaimer := booking.NewReclaimer(bookingSvc, cfg.Booking.SweepInterval, zlog)
	if err := reclaimer.Start(ctx); err != nil {
		zlog.Fatal("failed to start lock reclaimer", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	if err := reclaimer.Stop(shutdownCtx); err != nil {
		zlog.Error("reclaimer shutdown failed", zap.Error(err))
	}
}
