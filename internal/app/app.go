package app

import (
	"sjwi-backend/internal/auth"
	"sjwi-backend/internal/certificates"
	"sjwi-backend/internal/config"
	"sjwi-backend/internal/customers"
	"sjwi-backend/internal/database"
	"sjwi-backend/internal/emails"
	"sjwi-backend/internal/health"
	"sjwi-backend/internal/items"
	"sjwi-backend/internal/middleware"
	"sjwi-backend/internal/numbering"
	"sjwi-backend/internal/pdf"
	"sjwi-backend/internal/pkg/constants"
	"sjwi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// gormPinger adapts *gorm.DB to the health check's DBPinger.
type gormPinger struct{ db *gorm.DB }

func (g gormPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and route registration.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis); need Redis client for health marker too
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Health request marker (after session)
	app.Use(middleware.HealthMarker(rdb))

	// Response formatter (inject helpers)
	app.Use(middleware.ResponseFormatter())

	// Tracing + route logger
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// --- Routes (no auth) ---
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
	}

	// Health module (GET /, GET /reset, GET /health/json, GET /health/errors)
	healthHandlers := &health.Handlers{
		Rdb: rdb,
		External: health.ExternalTargets{
			PDFServiceURL: cfg.PDFServiceURL,
			MailAPIURL:    "https://api.brevo.com",
		},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if db != nil {
		healthHandlers.DB = gormPinger{db: db}
	}
	app.Get("/", func(c *fiber.Ctx) error {
		return response.Success(c, "sjwi-certificates-api", nil, nil)
	})
	app.Get("/reset", healthHandlers.Reset)
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/errors", healthHandlers.Errors)

	// Auth (no auth middleware): POST login, GET me, DELETE logout
	// db may be nil if DATABASE_URL not set (e.g. tests); Login will return 500
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Operator provisioning (admin only)
	if db != nil {
		userHandlers := &auth.UserHandlers{DB: db}
		userGroup := app.Group("/api/v1/users", middleware.RequireRole(constants.Admin))
		userGroup.Post("/", userHandlers.CreateUser)
		userGroup.Get("/", userHandlers.ListUsers)
	}

	// --- Protected modules (auth required) ---
	if db != nil {
		itemService := &items.Service{DB: db}
		customerService := &customers.Service{DB: db}
		certificateService := &certificates.Service{
			DB:            db,
			Items:         itemService,
			Customers:     customerService,
			Engine:        &numbering.Engine{DB: db},
			DefaultPrefix: cfg.CertificatePrefix,
		}
		pdfService := &pdf.Service{Converter: &pdf.HTTPConverter{BaseURL: cfg.PDFServiceURL}}
		mailer := &emails.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom}

		// Customers module
		customerHandlers := &customers.Handlers{Service: customerService}
		customerGroup := app.Group("/api/v1/customers", middleware.RequireAuth())
		customerGroup.Post("/", customerHandlers.Create)
		customerGroup.Get("/", customerHandlers.GetAll)
		customerGroup.Get("/name/:name", customerHandlers.GetByName)
		customerGroup.Get("/:id", customerHandlers.GetByID)

		// Items module
		itemHandlers := &items.Handlers{Service: itemService}
		itemGroup := app.Group("/api/v1/items", middleware.RequireAuth())
		itemGroup.Post("/", itemHandlers.Create)
		itemGroup.Get("/", itemHandlers.GetAll)
		itemGroup.Get("/code/:code", itemHandlers.GetByCode)

		// Certificates module. Static paths before /:id so "search" and
		// "next-suffix" never parse as ids.
		certificateHandlers := &certificates.Handlers{
			Service:   certificateService,
			Customers: customerService,
			PDF:       pdfService,
			Mailer:    mailer,
		}
		certGroup := app.Group("/api/v1/certificates", middleware.RequireAuth())
		certGroup.Post("/", certificateHandlers.Create)
		certGroup.Get("/", certificateHandlers.GetAll)
		certGroup.Get("/search", certificateHandlers.Search)
		certGroup.Get("/next-suffix", certificateHandlers.NextSuffix)
		certGroup.Post("/preview", certificateHandlers.Preview)
		certGroup.Get("/:id", certificateHandlers.GetByID)
		certGroup.Put("/:id", certificateHandlers.Update)
		certGroup.Delete("/:id", certificateHandlers.Delete)
		certGroup.Get("/:id/pdf", certificateHandlers.DownloadPDF)
		certGroup.Post("/:id/email", certificateHandlers.SendEmail)
		certGroup.Get("/:id/emails", certificateHandlers.EmailHistory)
	}

	return app, db, rdb, nil
}
