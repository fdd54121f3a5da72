package http

import (
	"strings"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/festal/festal-backend/internal/application/analytics"
	"github.com/festal/festal-backend/internal/application/auth"
	"github.com/festal/festal-backend/internal/application/billing"
	"github.com/festal/festal-backend/internal/application/usecase"
	"github.com/festal/festal-backend/pkg/logger"
)

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name           string
	AllowedOrigins []string
	RequestTimeout time.Duration
	SwaggerFile    string // vacío = sin /docs
}

// NewApp crea la aplicación Fiber con el stack de middleware común:
// recover, request id, log de peticiones, CORS y timeout de contexto.
func NewApp(cfg AppConfig, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	// Fiber rechaza credenciales con origen comodín: sin lista no se envían.
	corsCfg := cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = strings.Join(cfg.AllowedOrigins, ",")
		corsCfg.AllowCredentials = true
	}
	app.Use(cors.New(corsCfg))
	app.Use(RequestTimeout(cfg.RequestTimeout))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "Festal API",
		}))
	}
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	SalesUC       *usecase.SalesUseCase
	PerformanceUC *usecase.PerformanceUseCase
	BillingUC     *billing.BillingUseCase
	InvoicePDF    *billing.PDFUseCase
	SummaryUC     *analytics.SummaryUseCase
	ServiceName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": deps.ServiceName})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api := app.Group("/api/v1")

	// Auth: login público; logout solo exige el header (idempotente).
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", AuthMiddleware(deps.AuthUC), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Las rutas /summary/* se registran antes de /:id.
	sales := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC, deps.SummaryUC)
	sales.Get("/summary/monthly", salesHandler.MonthlySummary)
	sales.Get("/", salesHandler.List)
	sales.Post("/", salesHandler.Create)
	sales.Get("/:id", salesHandler.Get)
	sales.Put("/:id", salesHandler.Update)
	sales.Delete("/:id", salesHandler.Delete)

	perf := protected.Group("/performance")
	perfHandler := NewPerformanceHandler(deps.PerformanceUC, deps.SummaryUC)
	perf.Get("/summary/department", perfHandler.DepartmentSummary)
	perf.Get("/user/:user_id", perfHandler.ListByUser)
	perf.Get("/", perfHandler.List)
	perf.Post("/", perfHandler.Create)
	perf.Get("/:id", perfHandler.Get)
	perf.Put("/:id", perfHandler.Update)
	perf.Delete("/:id", perfHandler.Delete)

	bill := protected.Group("/billing")
	billHandler := NewBillingHandler(deps.BillingUC, deps.InvoicePDF, deps.SummaryUC)
	bill.Get("/summary/monthly", billHandler.MonthlySummary)
	bill.Get("/", billHandler.List)
	bill.Post("/", billHandler.Create)
	bill.Post("/approve", billHandler.BulkApprove)
	bill.Get("/:id", billHandler.Get)
	bill.Put("/:id", billHandler.Update)
	bill.Delete("/:id", billHandler.Delete)
	bill.Post("/:id/send", billHandler.Send)
	bill.Post("/:id/approve", billHandler.Approve)
	bill.Post("/:id/reject", billHandler.Reject)
	bill.Post("/:id/resubmit", billHandler.Resubmit)
	bill.Get("/:id/pdf", billHandler.PDF)
}
