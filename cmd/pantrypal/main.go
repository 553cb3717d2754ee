package main

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"

	"github.com/vbonduro/pantrypal/internal/auth"
	"github.com/vbonduro/pantrypal/internal/config"
	"github.com/vbonduro/pantrypal/internal/db"
	"github.com/vbonduro/pantrypal/internal/logging"
	"github.com/vbonduro/pantrypal/internal/mailer"
	"github.com/vbonduro/pantrypal/internal/photostore/local"
	"github.com/vbonduro/pantrypal/internal/service"
	"github.com/vbonduro/pantrypal/internal/store"
	"github.com/vbonduro/pantrypal/internal/store/supabase"
	"github.com/vbonduro/pantrypal/internal/vision"
	claudevision "github.com/vbonduro/pantrypal/internal/vision/claude"
	ollamavision "github.com/vbonduro/pantrypal/internal/vision/ollama"
	"github.com/vbonduro/pantrypal/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	zones, items, err := newInventoryStores(cfg, database, logger)
	if err != nil {
		logger.Error("failed to initialize inventory store", "error", err)
		return
	}
	photos := store.NewPhotoStore(database)

	photoStg, err := local.NewLocalPhotoStore(cfg.PhotoPath)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		return
	}

	authService := auth.NewService(
		store.NewUserStore(database),
		store.NewSessionStore(database),
		store.NewResetStore(database),
		auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		newMailer(cfg, logger),
		cfg.ResetURL,
		logger,
	)
	clock := service.Clock{Location: cfg.Location}

	server := web.NewServer(web.Services{
		Auth:      authService,
		Inventory: service.NewInventoryService(items, zones, clock, logger),
		Zones:     service.NewZoneService(zones, items, photos, photoStg, logger),
		Dashboard: service.NewDashboardService(items, clock, logger),
		Scan:      service.NewScanService(zones, photos, items, newVisionAnalyzer(cfg, logger), photoStg, clock, logger),
	}, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// newInventoryStores returns the zone and item stores for the configured
// backend. Users, sessions and photos stay in SQLite either way.
func newInventoryStores(cfg *config.Config, database *sql.DB, logger *slog.Logger) (service.ZoneRepository, service.ItemRepository, error) {
	switch cfg.StoreBackend {
	case "supabase":
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to supabase: %w", err)
		}
		logger.Info("using Supabase inventory store", "url", cfg.SupabaseURL)
		return client.Zones(), client.Items(), nil
	default:
		logger.Info("using SQLite inventory store", "path", cfg.DBPath)
		return store.NewZoneStore(database), store.NewItemStore(database), nil
	}
}

func newVisionAnalyzer(cfg *config.Config, logger *slog.Logger) vision.VisionAnalyzer {
	switch cfg.VisionBackend {
	case "claude":
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeAnalyzer(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	default:
		logger.Info("using Ollama vision backend", "model", cfg.OllamaModel)
		return ollamavision.NewOllamaAnalyzer(cfg.OllamaHost, cfg.OllamaModel)
	}
}

func newMailer(cfg *config.Config, logger *slog.Logger) mailer.Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set: password reset emails will not be delivered")
		return mailer.NewLogMailer(logger)
	}
	logger.Info("using SMTP mailer", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	}, logger)
}
