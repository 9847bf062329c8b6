package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/minishop/internal/auth"
	"github.com/mmynk/minishop/internal/cart"
	"github.com/mmynk/minishop/internal/catalog"
	"github.com/mmynk/minishop/internal/config"
	"github.com/mmynk/minishop/internal/metrics"
	"github.com/mmynk/minishop/internal/middleware"
	"github.com/mmynk/minishop/internal/service"
	"github.com/mmynk/minishop/internal/storage"
	"github.com/mmynk/minishop/internal/storage/gormstore"
	"github.com/mmynk/minishop/internal/storage/sqlite"
	"github.com/mmynk/minishop/internal/web"
	"github.com/mmynk/minishop/pkg/logging"
	"github.com/mmynk/minishop/pkg/shopapi"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.InsecureSecret() {
		slog.Warn("JWT_SECRET not set; using the insecure development secret")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalogSvc := catalog.NewService(store)
	if err := seedCatalog(ctx, catalogSvc, cfg.SeedFile); err != nil {
		return err
	}

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	identity := auth.NewIdentity(store)
	authenticator := auth.NewPasswordAuthenticator(store, auth.NewBcryptHasher(cfg.BcryptCost))
	cartSvc := cart.NewService(identity, catalogSvc, store, m)

	mux := http.NewServeMux()

	// Connect services
	logInterceptor := connect.WithInterceptors(middleware.LoggingInterceptor())
	// One budget per client IP covers both the storefront and RPC credential
	// endpoints.
	limiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)

	authPath, authHandler := shopapi.NewAuthServiceHandler(
		service.NewAuthService(authenticator, identity, jwtManager, m, logger),
		logInterceptor,
		connect.WithInterceptors(
			limiter.Interceptor(shopapi.AuthServiceLoginProcedure, shopapi.AuthServiceRegisterProcedure),
			middleware.OptionalAuth(jwtManager),
		),
	)
	mux.Handle(authPath, middleware.CORS(authHandler))

	catalogPath, catalogHandler := shopapi.NewCatalogServiceHandler(
		service.NewCatalogService(catalogSvc, logger),
		logInterceptor,
	)
	mux.Handle(catalogPath, middleware.CORS(catalogHandler))

	cartPath, cartHandler := shopapi.NewCartServiceHandler(
		service.NewCartService(cartSvc, logger),
		logInterceptor, connect.WithInterceptors(middleware.RequireAuth(jwtManager)),
	)
	mux.Handle(cartPath, middleware.CORS(cartHandler))

	// Storefront
	site, err := web.NewHandler(web.Deps{
		Authenticator: authenticator,
		JWT:           jwtManager,
		Catalog:       catalogSvc,
		Carts:         cartSvc,
		Store:         store,
		Metrics:       m,
		Limiter:       limiter,
		CookieSecure:  cfg.CookieSecure,
	})
	if err != nil {
		return err
	}
	site.Register(mux)

	mux.Handle("GET /metrics", m.Handler())

	handler := middleware.Logging(middleware.Metrics(m)(mux))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := gormstore.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver)
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver, "database", cfg.DBPath)
		return store, nil
	}
}

// seedCatalog fills an empty catalog from seedFile, or from the built-in
// products when no file is configured.
func seedCatalog(ctx context.Context, svc *catalog.Service, seedFile string) error {
	products := catalog.DefaultProducts()
	if seedFile != "" {
		loaded, err := catalog.LoadSeedFile(seedFile)
		if err != nil {
			return fmt.Errorf("failed to load seed file: %w", err)
		}
		products = loaded
	}

	if _, err := svc.Seed(ctx, products); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}
