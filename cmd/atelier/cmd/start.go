package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atelier-store/atelier/internal/adapter/inbound/http"
	"github.com/atelier-store/atelier/internal/adapter/outbound/memory"
	"github.com/atelier-store/atelier/internal/adapter/outbound/seed"
	"github.com/atelier-store/atelier/internal/adapter/outbound/sqlite"
	"github.com/atelier-store/atelier/internal/config"
	"github.com/atelier-store/atelier/internal/domain/catalog"
	"github.com/atelier-store/atelier/internal/domain/policy"
	"github.com/atelier-store/atelier/internal/domain/token"
	"github.com/atelier-store/atelier/internal/domain/user"
	"github.com/atelier-store/atelier/internal/observability"
	"github.com/atelier-store/atelier/internal/service"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long: `Start the Atelier HTTP server.

Examples:
  # Start with config file settings
  atelier start

  # Start with a specific config file
  atelier --config /path/to/config.yaml start

  # Start in development mode (in-memory stores, ephemeral token secret)
  atelier start --dev`,
	RunE: runStart,
}

var devMode bool

func init() {
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode (debug logging, in-memory stores)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// CLI flag overrides config before defaults and validation.
	if devMode {
		cfg.DevMode = true
	}
	cfg.SetDefaults()

	// Dev mode runs without a configured secret: generate an ephemeral one so
	// tokens work within a single process lifetime.
	ephemeralSecret := false
	if cfg.Auth.TokenSecret == "" && cfg.DevMode {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate ephemeral token secret: %w", err)
		}
		cfg.Auth.TokenSecret = hex.EncodeToString(secret)
		ephemeralSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Signal context for graceful shutdown. stop() restores default signal
	// handling so a second Ctrl+C does a hard kill.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Info("loaded config", "file", configFile)
	}
	if ephemeralSecret {
		logger.Warn("dev mode: using ephemeral token secret, tokens will not survive a restart")
	}

	return run(ctx, cfg, logger)
}

// run wires all components together and serves until the context is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTracing, err := observability.SetupTracing(cfg.Telemetry.TracesEnabled)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	// Storage: SQLite when a path is configured, in-memory otherwise.
	var (
		userStore    user.Store
		productStore catalog.Store
		health       *http.HealthChecker
	)
	if cfg.Storage.Path != "" {
		db, err := sqlite.Open(ctx, cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = db.Close() }()

		userStore = sqlite.NewUserStore(db)
		productStore = sqlite.NewProductStore(db)
		health = http.NewHealthChecker(db, Version)
		logger.Info("storage: sqlite", "path", cfg.Storage.Path)
	} else {
		userStore = memory.NewUserStore()
		productStore = memory.NewProductStore()
		health = http.NewHealthChecker(nil, Version)
		logger.Info("storage: in-memory")
	}

	if cfg.Storage.SeedFile != "" {
		seedFile, err := seed.Load(cfg.Storage.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to load seed file: %w", err)
		}
		if err := seed.Apply(ctx, seedFile, userStore, productStore, logger); err != nil {
			return fmt.Errorf("failed to apply seed file: %w", err)
		}
		logger.Info("seed file applied", "file", cfg.Storage.SeedFile)
	}

	codec, err := token.NewCodec([]byte(cfg.Auth.TokenSecret),
		token.WithTTL(cfg.Auth.TokenTTLDuration()),
		token.WithLeeway(cfg.Auth.TokenLeewayDuration()),
	)
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	engine := policy.NewEngine(policy.DefaultRules(), cfg.Auth.DecisionCacheSize)

	userService := service.NewUserService(userStore, codec, logger)
	catalogService := service.NewCatalogService(productStore, logger)

	server := http.NewServer(userService, catalogService, codec, engine,
		http.WithAddr(cfg.Server.HTTPAddr),
		http.WithLogger(logger),
		http.WithHealthChecker(health),
	)

	logger.Info("atelier starting",
		"version", Version,
		"dev_mode", cfg.DevMode,
		"http_addr", cfg.Server.HTTPAddr,
		"token_ttl", cfg.Auth.TokenTTL,
		"decision_cache", cfg.Auth.DecisionCacheSize,
		"traces", cfg.Telemetry.TracesEnabled,
	)

	if err := server.Start(ctx); err != nil {
		return err
	}

	logger.Info("atelier stopped")
	return nil
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
