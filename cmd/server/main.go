package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dashboardClient "letwise/internal/dashboard/client"
	dashboardHandler "letwise/internal/dashboard/handler"
	dashboardMetrics "letwise/internal/dashboard/metrics"
	dashboardService "letwise/internal/dashboard/service"
	"letwise/internal/document"
	"letwise/internal/document/pdf"
	"letwise/internal/document/preview"
	generationHandler "letwise/internal/generation/handler"
	generationMetrics "letwise/internal/generation/metrics"
	generationService "letwise/internal/generation/service"
	"letwise/internal/generation/store/counter"
	ordersHandler "letwise/internal/orders/handler"
	ordersMetrics "letwise/internal/orders/metrics"
	ordersService "letwise/internal/orders/service"
	orderStore "letwise/internal/orders/store/order"
	"letwise/internal/platform/config"
	"letwise/internal/platform/httpserver"
	"letwise/internal/platform/logger"
	"letwise/internal/platform/metrics"
	"letwise/internal/platform/postgres"
	"letwise/internal/platform/redis"
	"letwise/internal/referencedata"
	"letwise/internal/rules"
	"letwise/internal/wizard"
	wizardHandler "letwise/internal/wizard/handler"
	"letwise/pkg/platform/middleware/metadata"
	"letwise/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.close()

	router, err := buildRouter(ctx, cfg, log, infra)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting letwise", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// infra holds the optional external stores. Nil fields fall back to memory.
type infra struct {
	redis *redis.Client
	db    *sql.DB
}

func openInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		if rc != nil {
			_ = rc.Close()
		}
		return nil, err
	}
	log.Info("stores configured", "redis", rc != nil, "postgres", db != nil)
	return &infra{redis: rc, db: db}, nil
}

func (i *infra) close() {
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func buildRouter(ctx context.Context, cfg config.Server, log *slog.Logger, infra *infra) (http.Handler, error) {
	authorities, err := loadAuthorities(cfg)
	if err != nil {
		return nil, err
	}
	registry, err := loadRuleSets(cfg)
	if err != nil {
		return nil, err
	}

	orders, err := buildOrders(ctx, log, infra)
	if err != nil {
		return nil, err
	}

	pdfAssembler, err := document.NewAssembler(pdf.New())
	if err != nil {
		return nil, err
	}
	pngAssembler, err := document.NewAssembler(preview.New())
	if err != nil {
		return nil, err
	}
	var docCounter generationService.Counter = counter.NewInMemory()
	if infra.redis != nil {
		docCounter = counter.NewRedis(infra.redis.Client)
	}
	generation, err := generationService.New(authorities, registry, document.NewRenderer(),
		generationService.WithLogger(log),
		generationService.WithMetrics(generationMetrics.New()),
		generationService.WithAssembler(generationService.FormatPDF, pdfAssembler),
		generationService.WithAssembler(generationService.FormatPreview, pngAssembler),
		generationService.WithCounter(docCounter),
		generationService.WithOrders(orders),
	)
	if err != nil {
		return nil, err
	}

	httpMetrics := metrics.New()
	r := chi.NewRouter()
	r.Use(metadata.RequestMetadata)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(httpMetrics.Middleware)

	r.Get("/health", healthHandler(infra))
	r.Handle("/metrics", promhttp.Handler())

	generationHandler.New(generation, log).Register(r)
	ordersHandler.New(orders, log).Register(r)
	wizardHandler.New(wizard.NewRouter(cfg.WizardEntryPath)).Register(r)

	if cfg.Dashboard.BaseURL != "" {
		dashboard, err := dashboardService.New(
			dashboardClient.New(cfg.Dashboard.BaseURL, cfg.Dashboard.Timeout),
			dashboardService.WithLogger(log),
			dashboardService.WithMetrics(dashboardMetrics.New()),
			dashboardService.WithSectionTimeout(cfg.Dashboard.Timeout),
		)
		if err != nil {
			return nil, err
		}
		dashboardHandler.New(dashboard).Register(r)
	}

	return r, nil
}

func loadAuthorities(cfg config.Server) (*referencedata.Store, error) {
	if cfg.ReferenceDataPath != "" {
		return referencedata.LoadFile(cfg.ReferenceDataPath)
	}
	return referencedata.Default()
}

func loadRuleSets(cfg config.Server) (*rules.Registry, error) {
	if cfg.RuleSetDir == "" {
		return rules.DefaultRegistry()
	}
	sets, err := rules.LoadFS(os.DirFS(cfg.RuleSetDir), ".")
	if err != nil {
		return nil, err
	}
	return rules.NewRegistry(sets...)
}

func buildOrders(ctx context.Context, log *slog.Logger, infra *infra) (*ordersService.Service, error) {
	var store ordersService.OrderStore = orderStore.NewInMemory()
	if infra.db != nil {
		pg := orderStore.NewPostgres(infra.db)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		store = pg
	}
	return ordersService.New(store,
		ordersService.WithLogger(log),
		ordersService.WithMetrics(ordersMetrics.New()),
	)
}

func healthHandler(infra *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if infra.redis != nil {
			if err := infra.redis.Health(ctx); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if infra.db != nil {
			if err := infra.db.PingContext(ctx); err != nil {
				http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
