package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/audit"
	"github.com/BruksfildServices01/turnos/internal/billing"
	"github.com/BruksfildServices01/turnos/internal/config"
	"github.com/BruksfildServices01/turnos/internal/domain/plan"
	"github.com/BruksfildServices01/turnos/internal/handlers"
	"github.com/BruksfildServices01/turnos/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/turnos/internal/infra/repository"
	"github.com/BruksfildServices01/turnos/internal/infra/storage"
	"github.com/BruksfildServices01/turnos/internal/logging"
	"github.com/BruksfildServices01/turnos/internal/metrics"
	"github.com/BruksfildServices01/turnos/internal/middleware"
	"github.com/BruksfildServices01/turnos/internal/notify"
	ucAppointment "github.com/BruksfildServices01/turnos/internal/usecase/appointment"
	ucBooking "github.com/BruksfildServices01/turnos/internal/usecase/booking"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Config  *config.Config
	Logger  *logging.Logger
	Metrics *metrics.Metrics
	Audit   *audit.Dispatcher
	Notify  *notify.Dispatcher
	Logos   *storage.Store
	Billing *billing.Service
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	db, cfg := d.DB, d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	businessRepo := infraRepo.NewBusinessGormRepository(db)

	businessCache := cache.NewBusinessCache(d.Redis, businessRepo, cfg.CacheTTL)
	sessionStore := cache.NewSessionStore(d.Redis, cfg.BookingSessionTTL)
	denylist := cache.NewTokenDenylist(d.Redis)
	publicLimiter := cache.NewRateLimiter(d.Redis, cfg.PublicRateLimit, cfg.PublicRateWindow, "rl:public")

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, d.Audit, d.Notify, d.Metrics)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, d.Metrics)

	appointmentUCs := handlers.AppointmentUseCases{
		Create:       createAppointmentUC,
		UpdateStatus: ucAppointment.NewUpdateAppointmentStatus(appointmentRepo, d.Audit),
		Delete:       ucAppointment.NewDeleteAppointment(appointmentRepo, d.Audit),
		ByDate:       ucAppointment.NewListAppointmentsByDate(appointmentRepo),
		ByMonth:      ucAppointment.NewListAppointmentsByMonth(appointmentRepo),
		Availability: availabilityUC,
		Week:         ucAppointment.NewGetWeekGrid(appointmentRepo, d.Metrics),
	}

	bookingFlow := ucBooking.NewService(
		sessionStore,
		appointmentRepo,
		availabilityUC,
		createAppointmentUC,
		cfg.BookingResetDelay,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, denylist)
	meHandler := handlers.NewMeHandler(db)
	businessHandler := handlers.NewBusinessHandler(businessRepo, businessCache, d.Logos, d.Audit)
	serviceHandler := handlers.NewServiceHandler(db, d.Audit)
	staffHandler := handlers.NewStaffHandler(db, d.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, staffHandler, d.Audit)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentUCs)
	expenseHandler := handlers.NewExpenseHandler(db, d.Audit)
	financeHandler := handlers.NewFinanceHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	planHandler := handlers.NewPlanHandler(d.Billing, businessRepo, businessCache, d.Audit, d.Logger)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	publicHandler := handlers.NewPublicHandler(db, businessCache, availabilityUC, bookingFlow)

	rateLimit := middleware.RateLimit(publicLimiter, d.Metrics, d.Logger)
	gate := func(s plan.Section) gin.HandlerFunc {
		return middleware.RequireSection(s, d.Metrics)
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/plans", planHandler.Catalog)
		api.POST("/billing/webhook", planHandler.Webhook)

		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public/:slug")
		{
			publicAPI.GET("", publicHandler.Profile)
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/staff", publicHandler.ListStaff)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/appointments", rateLimit, publicHandler.CreateAppointment)

			publicAPI.POST("/bookings", rateLimit, publicHandler.StartBooking)
			publicAPI.GET("/bookings/:session", publicHandler.GetBooking)
			publicAPI.PUT("/bookings/:session/service", publicHandler.SelectService)
			publicAPI.PUT("/bookings/:session/staff", publicHandler.SelectStaff)
			publicAPI.PUT("/bookings/:session/datetime", publicHandler.SelectDateTime)
			publicAPI.POST("/bookings/:session/back", publicHandler.Back)
			publicAPI.POST("/bookings/:session/submit", rateLimit, publicHandler.Submit)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", rateLimit, authHandler.Register)
		api.POST("/auth/login", rateLimit, authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(
			middleware.AuthMiddleware(cfg.JWTSecret, denylist),
			middleware.SessionMiddleware(businessCache),
		)
		{
			secured.GET("", meHandler.GetMe)
			secured.POST("/logout", authHandler.Logout)

			secured.GET("/plan", planHandler.Current)
			secured.POST("/plan/checkout", planHandler.Checkout)
			secured.GET("/sections/:section", planHandler.Section)

			settings := secured.Group("/business", gate(plan.SectionSettings))
			{
				settings.GET("", businessHandler.Get)
				settings.PATCH("", businessHandler.Update)
				settings.POST("/logo", businessHandler.UploadLogo)
				settings.GET("/audit-logs", auditLogsHandler.List)
			}

			services := secured.Group("/services", gate(plan.SectionServices))
			{
				services.GET("", serviceHandler.List)
				services.POST("", serviceHandler.Create)
				services.PATCH("/:id", serviceHandler.Update)
				services.DELETE("/:id", serviceHandler.Delete)
			}

			staff := secured.Group("/staff", gate(plan.SectionStaff))
			{
				staff.GET("", staffHandler.List)
				staff.POST("", staffHandler.Create)
				staff.PATCH("/:id", staffHandler.Update)
				staff.DELETE("/:id", staffHandler.Delete)
				staff.GET("/:id/working-hours", workingHoursHandler.Get)
				staff.PUT("/:id/working-hours", workingHoursHandler.Update)
			}

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			agenda := secured.Group("/appointments", gate(plan.SectionAgenda))
			{
				agenda.POST("", appointmentHandler.Create)
				agenda.GET("", appointmentHandler.ListByDate)
				agenda.GET("/month", appointmentHandler.ListByMonth)
				agenda.GET("/availability", appointmentHandler.Availability)
				agenda.GET("/week", appointmentHandler.Week)
				agenda.PATCH("/:id/status", appointmentHandler.UpdateStatus)
				agenda.DELETE("/:id", appointmentHandler.Delete)
			}

			crm := secured.Group("/clients", gate(plan.SectionCRM))
			{
				crm.GET("", clientHandler.List)
			}

			finance := secured.Group("/finance", gate(plan.SectionFinance))
			{
				finance.GET("/summary", financeHandler.Summary)
				finance.GET("/categories", expenseHandler.Categories)
				finance.GET("/expenses", expenseHandler.ListByMonth)
				finance.POST("/expenses", expenseHandler.Create)
				finance.DELETE("/expenses/:id", expenseHandler.Delete)
			}
		}
	}
}
