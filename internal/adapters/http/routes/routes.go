package routes

import (
	"time"

	"eac-registry/internal/adapters/http/handlers"
	"eac-registry/internal/adapters/http/middleware"
	"eac-registry/internal/adapters/notify"
	"eac-registry/internal/adapters/payment"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/adapters/ratelimit"
	"eac-registry/internal/adapters/storage"
	"eac-registry/internal/config"
	"eac-registry/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// registryCacheAge is how long public lookups may be cached
const registryCacheAge = 5 * time.Minute

// Deps is the infrastructure the API is built on
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Policy   *config.Policy
	Store    storage.Store
	Uploads  ratelimit.Limiter
	Sender   notify.Sender
	Gateway  payment.Gateway
	Registry *prometheus.Registry
}

// Workers are the background loops the caller starts and stops
type Workers struct {
	Dispatcher *services.Dispatcher
	Cron       *services.CronService
}

// Setup configures all routes for the application
func Setup(app *fiber.App, d Deps) *Workers {
	cfg := d.Config

	// Initialize repositories
	tx := repositories.NewTxManager(d.DB)
	userRepo := repositories.NewUserRepository(d.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(d.DB)
	applicantRepo := repositories.NewApplicantRepository(d.DB)
	appRepo := repositories.NewApplicationRepository(d.DB)
	docRepo := repositories.NewDocumentRepository(d.DB)
	historyRepo := repositories.NewStatusHistoryRepository(d.DB)
	decisionRepo := repositories.NewDecisionRepository(d.DB)
	registryRepo := repositories.NewRegistryRepository(d.DB)
	paymentRepo := repositories.NewPaymentRepository(d.DB)
	outboxRepo := repositories.NewOutboxRepository(d.DB)
	seriesRepo := repositories.NewNamingSeriesRepository(d.DB)

	// Initialize services
	metrics := services.NewMetrics(d.Registry)
	ids := services.NewIDGenerator(seriesRepo)
	dispatcher := services.NewDispatcher(outboxRepo, d.Sender, metrics)
	notifications := services.NewNotificationService(outboxRepo, userRepo, cfg)

	authService := services.NewAuthService(tx, userRepo, refreshTokenRepo, applicantRepo, ids, notifications, dispatcher, cfg)
	userService := services.NewUserService(userRepo)
	applicationService := services.NewApplicationService(tx, applicantRepo, appRepo, docRepo, historyRepo, registryRepo, ids, d.Policy, metrics)
	documentService := services.NewDocumentService(tx, appRepo, docRepo, d.Store, d.Uploads, d.Policy, metrics)
	workflowService := services.NewWorkflowService(tx, appRepo, docRepo, historyRepo, applicantRepo, decisionRepo, registryRepo, notifications, dispatcher, d.Policy, metrics)
	paymentService := services.NewPaymentService(tx, appRepo, paymentRepo, docRepo, d.Gateway, notifications, dispatcher, cfg, metrics)
	registryService := services.NewRegistryService(registryRepo)
	dashboardService := services.NewDashboardService(d.DB, appRepo, registryRepo, outboxRepo)

	var uploadCounters services.Resetter
	if r, ok := d.Uploads.(services.Resetter); ok {
		uploadCounters = r
	}
	cronService := services.NewCronService(dispatcher, authService, workflowService, registryService, uploadCounters)

	// Initialize handlers
	h := &apiHandlers{
		health:      handlers.NewHealthHandler(),
		auth:        handlers.NewAuthHandler(authService, cfg),
		user:        handlers.NewUserHandler(userService),
		application: handlers.NewApplicationHandler(applicationService, workflowService),
		document:    handlers.NewDocumentHandler(documentService),
		payment:     handlers.NewPaymentHandler(paymentService),
		review:      handlers.NewReviewHandler(applicationService, workflowService),
		registry:    handlers.NewRegistryHandler(registryService),
		dashboard:   handlers.NewDashboardHandler(dashboardService),
	}

	// Health check & root routes
	app.Get("/", h.health.Root)
	app.Get("/health", h.health.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, h, appRepo, cfg)

	return &Workers{Dispatcher: dispatcher, Cron: cronService}
}

type apiHandlers struct {
	health      *handlers.HealthHandler
	auth        *handlers.AuthHandler
	user        *handlers.UserHandler
	application *handlers.ApplicationHandler
	document    *handlers.DocumentHandler
	payment     *handlers.PaymentHandler
	review      *handlers.ReviewHandler
	registry    *handlers.RegistryHandler
	dashboard   *handlers.DashboardHandler
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(router fiber.Router, h *apiHandlers, apps middleware.ApplicationLoader, cfg *config.Config) {
	auth := middleware.AuthMiddleware(cfg)

	// API Info
	router.Get("/", h.health.APIInfo)

	setupAuthRoutes(router.Group("/auth"), h.auth, auth)

	// Public registry verification
	registryRoutes := router.Group("/registry", middleware.CacheControl(registryCacheAge))
	registryRoutes.Get("/members/:number", h.registry.LookupMember)
	registryRoutes.Get("/organizations/:number", h.registry.LookupOrganization)

	// Signed file links carry their own authorization
	router.Get("/files/:token", middleware.NoStore(), h.document.Download)

	// Gateway server-to-server callback
	router.Post("/payments/paynow/result", h.payment.PayNowResult)

	setupApplicationRoutes(router.Group("/applications", auth), h, apps)

	documentRoutes := router.Group("/documents", auth)
	documentRoutes.Get("/:docId/url", middleware.NoStore(), h.document.PresignURL)
	documentRoutes.Delete("/:docId", h.document.Delete)

	paymentRoutes := router.Group("/payments", auth)
	paymentRoutes.Post("/:id/initiate", h.payment.Initiate)
	paymentRoutes.Get("/:id/status", h.payment.Status)

	// Staff routes
	adminRoutes := router.Group("/admin", auth, middleware.StaffOnly())
	setupAdminRoutes(adminRoutes, h)

	// User management (Admin only); password change for any signed-in user
	userRoutes := router.Group("/users", auth)
	userRoutes.Put("/me/password", h.user.ChangePassword)
	setupUserRoutes(userRoutes, h.user)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler) {
	// Public routes
	router.Post("/register/individual", middleware.AuthRateLimiter(), handler.RegisterIndividual)
	router.Post("/register/organization", middleware.AuthRateLimiter(), handler.RegisterOrganization)
	router.Get("/verify-email", middleware.AuthRateLimiter(), handler.VerifyEmail)
	router.Post("/resend-verification", middleware.StrictRateLimiter(), handler.ResendVerification)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", auth, handler.Me)
	router.Post("/logout-all", auth, handler.LogoutAll)
}

// setupApplicationRoutes configures the applicant workflow and staff transitions
func setupApplicationRoutes(router fiber.Router, h *apiHandlers, apps middleware.ApplicationLoader) {
	router.Post("/individual/start", h.application.StartIndividual)
	router.Post("/organization/start", h.application.StartOrganization)
	router.Get("/my", h.application.GetMyApplications)

	router.Get("/:id", h.application.GetApplication)
	router.Put("/:id", middleware.SubmissionGuard(apps, false), h.application.UpdateApplication)
	router.Post("/:id/submit", middleware.SubmissionGuard(apps, true), h.application.SubmitApplication)
	router.Post("/:id/withdraw", h.application.WithdrawApplication)
	router.Get("/:id/requirements", h.application.GetRequirements)
	router.Get("/:id/history", h.application.GetHistory)

	router.Post("/:id/documents", h.document.Upload)
	router.Get("/:id/documents", h.document.List)

	// Review stages; the workflow checks the acting role per move
	router.Post("/:id/move-to-document-review", middleware.StaffOnly(), h.review.MoveToDocumentReview)
	router.Post("/:id/move-to-payment-review", middleware.StaffOnly(), h.review.MoveToPaymentReview)
	router.Post("/:id/return", middleware.StaffOnly(), h.review.ReturnToApplicant)
	router.Post("/:id/approve-final", middleware.AdminOnly(), h.review.ApproveFinal)
}

// setupAdminRoutes configures staff-only routes
func setupAdminRoutes(router fiber.Router, h *apiHandlers) {
	router.Get("/applications", h.review.ListApplications)
	router.Post("/applications/:id/decide", middleware.AdminOnly(), h.review.Decide)
	router.Post("/applications/:id/verify-payment", middleware.FinanceOrAdmin(), h.payment.VerifyPayment)
	router.Patch("/documents/:docId", h.document.Verify)

	router.Get("/members", h.registry.ListMembers)
	router.Get("/organizations", h.registry.ListOrganizations)
	router.Get("/registry/export", middleware.RegistrarOrAdmin(), h.registry.Export)

	router.Get("/dashboard", middleware.AdminOnly(), h.dashboard.GetAdminDashboard)
	router.Get("/dashboard/reviewer", h.dashboard.GetReviewerDashboard)
}

// setupUserRoutes configures user management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	admin := middleware.AdminOnly()

	router.Get("/", admin, handler.ListUsers)
	router.Post("/", admin, handler.CreateStaff)
	router.Get("/:id", admin, handler.GetUser)
	router.Put("/:id", admin, handler.UpdateUser)
	router.Delete("/:id", admin, handler.DeleteUser)
}
