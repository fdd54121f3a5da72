package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/festal/festal-backend/internal/application/analytics"
	"github.com/festal/festal-backend/internal/application/auth"
	"github.com/festal/festal-backend/internal/application/billing"
	"github.com/festal/festal-backend/internal/application/usecase"
	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/incentive"
	"github.com/festal/festal-backend/internal/domain/repository"
	"github.com/festal/festal-backend/internal/infrastructure/memory"
	"github.com/festal/festal-backend/internal/infrastructure/notify"
	infrapdf "github.com/festal/festal-backend/internal/infrastructure/pdf"
	"github.com/festal/festal-backend/internal/infrastructure/postgres"
	httpRouter "github.com/festal/festal-backend/internal/interfaces/http"
	"github.com/festal/festal-backend/pkg/config"
	"github.com/festal/festal-backend/pkg/logger"
	"github.com/festal/festal-backend/pkg/password"
)

const sessionPurgeInterval = time.Minute

func init() {
	// importes como números JSON (1100000.5), no como strings
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var txRunner repository.TxRunner
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		txRunner = memory.New()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		res, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		if res.Changed() {
			log.Info().Uint("from", res.From).Uint("to", res.To).Msg("esquema migrado")
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	gate := access.NewGate()
	hasher := password.NewHasher(bcrypt.DefaultCost)

	if cfg.Admin.Password != "" {
		created, err := auth.EnsureAdmin(ctx, txRunner, hasher, auth.AdminSeed{
			Username:   cfg.Admin.Username,
			Email:      cfg.Admin.Email,
			Department: cfg.Admin.Department,
			Password:   cfg.Admin.Password,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("administrador inicial")
		}
		ev := log.Info()
		if cfg.Admin.Password == config.DevAdminPassword {
			ev = log.Warn()
		}
		ev.Str("username", cfg.Admin.Username).Bool("created", created).Msg("administrador inicial listo")
	}
	rule := incentive.NewRule(cfg.Incentive.DefaultRate, cfg.Incentive.DepartmentRates, nil)

	var notifier billing.InvoiceNotifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL, nil)
	} else {
		notifier = notify.NewLogNotifier(log.Named("notify"))
	}

	authUC := auth.NewAuthUseCase(txRunner, auth.NewPasswordVerifier(txRunner, hasher), auth.TokenConfig{
		Secret: cfg.Auth.SecretKey,
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.SessionTTL(),
	})

	// PDF: representación imprimible de la factura
	pdfGenerator, err := infrapdf.NewMarotoPDFGenerator(cfg.App.Name, infrapdf.WithFontFile(cfg.PDF.FontFile))
	if err != nil {
		log.Fatal().Err(err).Str("font", cfg.PDF.FontFile).Msg("generador de PDF")
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:           cfg.App.Name,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		SwaggerFile:    "./docs/swagger.json",
	}, log.Named("http"))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(txRunner, gate, hasher),
		SalesUC:       usecase.NewSalesUseCase(txRunner, gate),
		PerformanceUC: usecase.NewPerformanceUseCase(txRunner, gate, rule),
		BillingUC:     billing.NewBillingUseCase(txRunner, gate, notifier),
		InvoicePDF:    billing.NewPDFUseCase(txRunner, gate, pdfGenerator),
		SummaryUC:     analytics.NewSummaryUseCase(txRunner, gate),
		ServiceName:   "Festal基幹システム API",
	})

	go purgeSessions(ctx, authUC, log.Named("sessions"))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// purgeSessions borra sesiones expiradas cada minuto hasta que ctx se cancela.
func purgeSessions(ctx context.Context, uc *auth.AuthUseCase, log *logger.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := uc.PurgeExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("purgar sesiones expiradas")
				continue
			}
			if n > 0 {
				log.Debug().Int("purged", n).Msg("sesiones expiradas eliminadas")
			}
		}
	}
}
