package routes

import (
	"log"

	"volunteer-rota-backend/internal/api/handlers"
	"volunteer-rota-backend/internal/api/middleware"
	"volunteer-rota-backend/internal/auth"
	"volunteer-rota-backend/internal/config"
	"volunteer-rota-backend/internal/ratelimit"
	"volunteer-rota-backend/internal/repository"
	"volunteer-rota-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// contactDirectory adapts repository.ContactRepository to auth.ContactDirectory
type contactDirectory struct {
	repo *repository.ContactRepository
}

func (d *contactDirectory) LookupByEmail(email string) (string, string, error) {
	contact, err := d.repo.GetByEmail(email)
	if err != nil {
		return "", "", err
	}
	return contact.ID.String(), contact.FullName(), nil
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))

	// Initialize validator
	validator := validator.New()

	// Initialize repositories
	contactRepo := repository.NewContactRepository(db)
	eventRepo := repository.NewEventRepository(db)
	occurrenceRepo := repository.NewOccurrenceRepository(db)
	rotaRepo := repository.NewRotaRepository(db)
	leaveRepo := repository.NewLeavePeriodRepository(db)

	// Signup rate limiting backed by Redis when configured, in-process otherwise
	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		if rl := ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.SignupRateLimit, cfg.SignupWindow()); rl != nil {
			limiter = rl
		}
	}
	if limiter == nil {
		log.Printf("Warning: Redis not available, signup rate limiting is per-process only")
		limiter = ratelimit.NewLocalLimiter(cfg.SignupRateLimit, cfg.SignupWindow())
	}

	// Initialize services
	eventService := service.NewEventService(eventRepo, validator)
	occurrenceService := service.NewOccurrenceService(occurrenceRepo, eventRepo, validator, cfg.OccurrenceHorizonMonths)
	contactService := service.NewContactService(contactRepo, leaveRepo, validator)
	rotaService := service.NewRotaService(rotaRepo, eventRepo, occurrenceRepo, validator)
	assignmentService := service.NewAssignmentService(rotaRepo, occurrenceRepo, contactRepo, validator)
	signupService := service.NewSignupService(contactRepo, rotaRepo, occurrenceRepo, leaveRepo, assignmentService, limiter, validator)
	auditService := service.NewAuditService(rotaRepo, eventRepo, occurrenceRepo, contactRepo)

	// Initialize auth configuration and services
	authConfig, err := auth.LoadAuthConfig("config/auth.yaml")
	if err != nil {
		log.Printf("Warning: Failed to load auth config: %v", err)
		// Continue without auth if config fails to load
		authConfig = nil
	}

	var authHandler *auth.AuthHandler
	var authMiddleware *auth.AuthMiddleware
	if authConfig != nil {
		authService, err := auth.NewAuthService(authConfig)
		if err != nil {
			log.Printf("Warning: Failed to initialize auth service: %v", err)
		} else {
			authHandler = auth.NewAuthHandler(authService, &contactDirectory{repo: contactRepo})
			authMiddleware = auth.NewAuthMiddleware(authService)
		}
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	eventHandler := handlers.NewEventHandler(eventService)
	occurrenceHandler := handlers.NewOccurrenceHandler(occurrenceService)
	contactHandler := handlers.NewContactHandler(contactService)
	rotaHandler := handlers.NewRotaHandler(rotaService, assignmentService)
	signupHandler := handlers.NewSignupHandler(rotaService, signupService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Auth routes
	if authHandler != nil && authMiddleware != nil {
		authGroup := router.Group("/api/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/validate", authHandler.ValidateToken)
			authGroup.GET("/csrf", authMiddleware.RequireAuth(), authHandler.CSRF)
			authGroup.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)
		}
	}

	// Public signup routes - token-gated, no session required. A session, when
	// presented anyway, still populates the request context.
	public := router.Group("/public/signup")
	if authMiddleware != nil {
		public.Use(authMiddleware.OptionalAuth())
	}
	{
		public.GET("/:token", signupHandler.GetSignupPage)
		public.POST("/:token", signupHandler.PublicRotaSignup)
		public.POST("/:token/attend", signupHandler.PublicGuestSignup)
	}

	// API v1 routes - All endpoints require authentication
	v1 := router.Group("/api/v1")

	if authMiddleware != nil {
		v1.Use(authMiddleware.RequireAuth())
		v1.Use(authMiddleware.RequireCSRF())
	}

	{
		// Event routes
		events := v1.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
			events.POST("", eventHandler.CreateEvent)
			events.GET("/:id", eventHandler.GetEvent)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)
			events.GET("/:id/full", eventHandler.GetEventWithOccurrences)
			events.GET("/:id/occurrences", occurrenceHandler.ListByEvent)
			events.POST("/:id/occurrences/generate", occurrenceHandler.GenerateOccurrences)
			events.GET("/:id/rotas", rotaHandler.ListByEvent)
		}

		// Occurrence routes
		occurrences := v1.Group("/occurrences")
		{
			occurrences.POST("", occurrenceHandler.CreateOccurrence)
			occurrences.DELETE("/:id", occurrenceHandler.DeleteOccurrence)
		}

		// Contact routes
		contacts := v1.Group("/contacts")
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.POST("", contactHandler.CreateContact)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
			contacts.GET("/:id/leave", contactHandler.ListLeavePeriods)
			contacts.POST("/:id/leave", contactHandler.AddLeavePeriod)
			contacts.DELETE("/:id/leave/:leaveId", contactHandler.RemoveLeavePeriod)
		}

		// Rota routes
		rotas := v1.Group("/rotas")
		{
			rotas.POST("", rotaHandler.CreateRota)
			rotas.POST("/from-template", rotaHandler.CreateFromTemplate)
			rotas.GET("/:id", rotaHandler.GetRota)
			rotas.DELETE("/:id", rotaHandler.DeleteRota)
			rotas.POST("/:id/assignees", rotaHandler.AddAssignees)
			rotas.DELETE("/:id/assignees/:index", rotaHandler.RemoveAssignee)
			rotas.POST("/:id/bulk-assign", rotaHandler.BulkAssign)
			rotas.POST("/signup/:token", signupHandler.MemberRotaSignup)
		}

		// Audit routes, admin sessions only
		audit := v1.Group("/audit")
		if authMiddleware != nil {
			audit.Use(authMiddleware.RequireAdmin())
		}
		{
			audit.GET("/scan", auditHandler.Scan)
			audit.POST("/repair", auditHandler.Repair)
		}
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		})
	})

	return router
}

// SetupHealthRoutes sets up only health check routes (useful for testing)
func SetupHealthRoutes(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	return router
}
