package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitlife-app/backend/internal/audit"
	"github.com/fitlife-app/backend/internal/config"
	"github.com/fitlife-app/backend/internal/handler"
	"github.com/fitlife-app/backend/internal/middleware"
	"github.com/fitlife-app/backend/internal/notify"
	"github.com/fitlife-app/backend/internal/pdf"
	"github.com/fitlife-app/backend/internal/repository"
	"github.com/fitlife-app/backend/internal/security"
	"github.com/fitlife-app/backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	pool   *pgxpool.Pool
	cfg    *config.Config
)

func main() {
	// Load configuration
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize database connection pool with pgx
	pool, err = pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Test database connection
	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Successfully connected to database")

	// Initialize field-level encryption for clinical data
	encryptionKey, err := security.KeyFromBase64(cfg.Security.EncryptionKey)
	if err != nil {
		logger.Fatal("Failed to decode encryption key", zap.Error(err))
	}
	encryptor, err := security.NewEncryptor(encryptionKey)
	if err != nil {
		logger.Fatal("Failed to initialize encryptor", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	goalRepo := repository.NewGoalRepository(pool, logger)
	activityRepo := repository.NewActivityRepository(pool, logger)
	mealRepo := repository.NewMealRepository(pool, logger)
	medicalRecordRepo := repository.NewMedicalRecordRepository(pool, encryptor, logger)
	dietPlanRepo := repository.NewDietPlanRepository(pool, logger)
	workoutPlanRepo := repository.NewWorkoutPlanRepository(pool, logger)
	weightRepo := repository.NewWeightLogRepository(pool, logger)
	profileRepo := repository.NewProfileRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)

	// Initialize notifier and audit logger
	notifier := notify.New(notificationRepo, logger)
	auditLogger := audit.NewLogger(pool, logger)

	// Initialize services
	goalService := service.NewGoalService(goalRepo, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	statsService := service.NewStatsService(activityRepo, goalRepo, logger)
	mealService := service.NewMealService(mealRepo, logger)
	medicalRecordService := service.NewMedicalRecordService(medicalRecordRepo, notifier, auditLogger, logger)
	dietPlanService := service.NewDietPlanService(dietPlanRepo, notifier, logger)
	workoutPlanService := service.NewWorkoutPlanService(workoutPlanRepo, userRepo, activityRepo, notifier, logger)
	weightService := service.NewWeightService(weightRepo, profileRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	adminService := service.NewAdminService(userRepo, userRepo, auditLogger, logger)

	// Initialize PDF generator and report service
	pdfGenerator := pdf.NewPDFGenerator(logger)
	reportService := service.NewReportService(
		userRepo,
		activityRepo,
		goalRepo,
		weightRepo,
		mealRepo,
		pdfGenerator,
		logger,
	)

	// Initialize handlers
	goalHandler := handler.NewGoalHandler(goalService, logger)
	activityHandler := handler.NewActivityHandler(activityService, statsService, logger)
	mealHandler := handler.NewMealHandler(mealService, logger)
	medicalRecordHandler := handler.NewMedicalRecordHandler(medicalRecordService, logger)
	dietPlanHandler := handler.NewDietPlanHandler(dietPlanService, logger)
	workoutPlanHandler := handler.NewWorkoutPlanHandler(workoutPlanService, logger)
	weightHandler := handler.NewWeightHandler(weightService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Health check (unauthenticated)
	r.GET("/health", healthHandler.GetHealth)

	// Authenticated API routes
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger))

	goals := api.Group("/goals")
	{
		goals.POST("", goalHandler.CreateGoal)
		goals.GET("", goalHandler.ListGoals)
		goals.GET("/achievements", goalHandler.ListAchievedGoals)
		goals.PUT("/:id", goalHandler.UpdateGoal)
		goals.PUT("/:id/progress", goalHandler.UpdateProgress)
		goals.PATCH("/:id/progress", goalHandler.IncrementProgress)
		goals.DELETE("/:id", goalHandler.DeleteGoal)
	}

	activities := api.Group("/activities")
	{
		activities.POST("", activityHandler.LogActivity)
		activities.GET("", activityHandler.ListActivities)
		activities.GET("/stats", activityHandler.GetStats)
		activities.DELETE("/:id", activityHandler.DeleteActivity)
	}

	meals := api.Group("/meals")
	{
		meals.POST("", mealHandler.LogMeal)
		meals.GET("", mealHandler.ListMeals)
		meals.PUT("/:id", mealHandler.UpdateMeal)
		meals.DELETE("/:id", mealHandler.DeleteMeal)
	}

	medicalRecords := api.Group("/medical-records")
	{
		medicalRecords.POST("", medicalRecordHandler.CreateRecord)
		medicalRecords.GET("", medicalRecordHandler.ListRecords)
		medicalRecords.GET("/:id", medicalRecordHandler.GetRecord)
		medicalRecords.DELETE("/:id", medicalRecordHandler.DeleteRecord)
	}

	dietPlans := api.Group("/diet-plans")
	{
		dietPlans.POST("", dietPlanHandler.CreatePlan)
		dietPlans.GET("", dietPlanHandler.ListPlans)
		dietPlans.GET("/:id", dietPlanHandler.GetPlan)
		dietPlans.PUT("/:id", dietPlanHandler.UpdatePlan)
		dietPlans.DELETE("/:id", dietPlanHandler.DeletePlan)
	}

	workoutPlans := api.Group("/workout-plans")
	{
		workoutPlans.POST("", workoutPlanHandler.CreatePlan)
		workoutPlans.GET("", workoutPlanHandler.ListPlans)
		workoutPlans.GET("/:id", workoutPlanHandler.GetPlan)
		workoutPlans.PUT("/:id", workoutPlanHandler.UpdatePlan)
		workoutPlans.POST("/:id/assign", workoutPlanHandler.AssignUsers)
		workoutPlans.DELETE("/:id/assign/:userId", workoutPlanHandler.UnassignUser)
		workoutPlans.DELETE("/:id", workoutPlanHandler.DeletePlan)
	}

	trainer := api.Group("/trainer")
	{
		trainer.GET("/team-activities", workoutPlanHandler.TeamActivities)
		trainer.GET("/users/:userId/activities", workoutPlanHandler.UserActivitySummary)
	}

	weights := api.Group("/weight-logs")
	{
		weights.POST("", weightHandler.LogWeight)
		weights.GET("", weightHandler.ListWeights)
		weights.DELETE("/:id", weightHandler.DeleteWeight)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationHandler.ListNotifications)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	}

	api.GET("/experts", adminHandler.ListExperts)

	admin := api.Group("/admin")
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.POST("/users", adminHandler.CreateUser)
		admin.PUT("/users/:id/status", adminHandler.SetUserStatus)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.GET("/stats", adminHandler.GetSystemStats)
	}

	api.GET("/reports/progress", reportHandler.GenerateReport)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close database connections
	pool.Close()

	logger.Info("Server exited")
}
