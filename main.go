package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"SERVICE_API_KEY",
		"PORT",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient()
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	cfg := config.LoadShieldConfig()

	// Repositories
	shieldRepo := repository.GetShieldSettingsRepo(utils.MongoClient)
	guardianRepo := repository.GetGuardianRepo(utils.MongoClient)
	requestRepo := repository.GetActivationRequestRepo(utils.MongoClient)
	tokenRepo := repository.GetAccessTokenRepo(utils.MongoClient)
	documentRepo := repository.GetDocumentRepo(utils.MongoClient)
	notificationRepo := repository.GetNotificationRepo(utils.MongoClient)
	auditRepo := repository.GetAuditRepo(utils.MongoClient)
	profileRepo := repository.GetProfileRepo(utils.MongoClient)

	// Redis is optional: without it status reads fall through to Mongo
	// and the verify endpoints rely on the per-token lockout alone.
	stateMachine := &usecase.ShieldStateMachine{
		Shields: shieldRepo,
		Tokens:  tokenRepo,
	}
	var limiter handler.RateLimiter
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err := services.NewShieldStatusCache(redisURL, cfg.StatusCacheTTL)
		if err != nil {
			log.Printf("shield status cache disabled: %v", err)
		} else {
			services.GlobalShieldCache = cache
			stateMachine.Cache = cache
		}

		verifyLimiter, err := services.NewVerifyLimiter(redisURL, cfg.VerifyRateLimit, cfg.VerifyRateWindow)
		if err != nil {
			log.Printf("verification rate limiter disabled: %v", err)
		} else {
			services.GlobalVerifyLimiter = verifyLimiter
			limiter = verifyLimiter
		}
	}

	// Core services
	monitor := &usecase.InactivityMonitor{
		Shields:      shieldRepo,
		Guardians:    guardianRepo,
		Requests:     requestRepo,
		StateMachine: stateMachine,
		Outbox:       notificationRepo,
		Config:       cfg,
	}
	protocol := &usecase.ProtocolChecker{
		Requests:     requestRepo,
		Guardians:    guardianRepo,
		StateMachine: stateMachine,
		Outbox:       notificationRepo,
		Config:       cfg,
	}
	quorum := &usecase.QuorumCoordinator{
		Requests:     requestRepo,
		Guardians:    guardianRepo,
		StateMachine: stateMachine,
		Outbox:       notificationRepo,
	}
	tokens := &usecase.AccessTokenService{
		Tokens:       tokenRepo,
		Guardians:    guardianRepo,
		StateMachine: stateMachine,
		Outbox:       notificationRepo,
		Config:       cfg,
	}
	access := &usecase.EmergencyAccessService{
		Guardians: guardianRepo,
		Documents: documentRepo,
		Profiles:  profileRepo,
		Config:    cfg,
	}
	activity := &usecase.ActivityRecorder{
		Shields:      shieldRepo,
		Requests:     requestRepo,
		Guardians:    guardianRepo,
		StateMachine: stateMachine,
		Outbox:       notificationRepo,
	}
	settings := &usecase.SettingsService{Settings: shieldRepo, Config: cfg}
	guardians := &usecase.GuardianManager{Guardians: guardianRepo, Shields: shieldRepo}
	status := &usecase.SystemStatusService{
		Shields:       shieldRepo,
		Activations:   requestRepo,
		Notifications: notificationRepo,
	}

	// Handlers
	opsHandler := handler.NewShieldOpsHandler(monitor, protocol, status)
	emergencyHandler := handler.NewEmergencyHandler(tokens, access, quorum, requestRepo, limiter, auditRepo)
	guardianHandler := handler.NewGuardianHandler(guardians)
	settingsHandler := handler.NewShieldSettingsHandler(settings, activity)

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.EnhancedRecoveryMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scheduler-facing routes behind the shared service key
	service := router.Group("/api/shield")
	service.Use(middleware.ServiceAuthMiddleware())
	{
		service.POST("/check-inactivity", opsHandler.CheckInactivity)
		service.POST("/protocol-inactivity-checker", opsHandler.ProtocolChecker)
		service.GET("/status", opsHandler.SystemStatus)
	}

	// Public guardian-facing routes; the token or signed link is the
	// only credential
	emergency := router.Group("/api/emergency")
	{
		emergency.POST("/confirm", emergencyHandler.Confirm)
		emergency.POST("/request-access", emergencyHandler.RequestAccess)
		emergency.POST("/verify-access", emergencyHandler.VerifyAccess)
		emergency.POST("/documents/download", emergencyHandler.DownloadDocument)
	}

	// Routes for the protected user
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		shield := protected.Group("/shield")
		{
			shield.GET("/settings", settingsHandler.GetSettings)
			shield.PUT("/settings", settingsHandler.UpdateSettings)
			shield.POST("/activity", settingsHandler.RecordActivity)
		}

		roster := protected.Group("/guardians")
		{
			roster.GET("", guardianHandler.ListGuardians)
			roster.POST("", guardianHandler.CreateGuardian)
			roster.PUT("/:id", guardianHandler.UpdateGuardian)
			roster.DELETE("/:id", guardianHandler.DeleteGuardian)
		}
	}

	return router
}

func main() {
	utils.StartSystemMetricsCollector(15 * time.Second)

	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
