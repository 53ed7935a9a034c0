package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/casklist/casklist/internal/browse"
	"github.com/casklist/casklist/internal/catalog"
	"github.com/casklist/casklist/internal/config"
	"github.com/casklist/casklist/internal/feed"
	"github.com/casklist/casklist/internal/prefs"
	"github.com/casklist/casklist/internal/server"
	"github.com/casklist/casklist/internal/store"
	"github.com/casklist/casklist/internal/version"
	"github.com/casklist/casklist/pkg/festivals"
	"github.com/casklist/casklist/pkg/models"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("CaskList server starting")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.Open(cfg.GetString("db.path"))
	if err != nil {
		logger.Fatal("failed to open preference store", zap.Error(err))
	}
	defer db.Close()

	favorites, err := prefs.NewSQLiteFavoritesRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize favorites", zap.Error(err))
	}
	ratings, err := prefs.NewSQLiteRatingsRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize ratings", zap.Error(err))
	}
	settings, err := prefs.NewSQLiteSettingsRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize settings", zap.Error(err))
	}

	client := feed.NewClient(
		cfg.GetDuration("feed.timeout"),
		cfg.GetFloat64("feed.rate_limit"),
		logger,
	)

	festList, defaultID, err := resolveFestivals(ctx, cfg, client, logger)
	if err != nil {
		logger.Fatal("failed to resolve festival registry", zap.Error(err))
	}

	fest, err := selectStartupFestival(ctx, settings, festList, defaultID)
	if err != nil {
		logger.Fatal("failed to select festival", zap.Error(err))
	}
	logger.Info("selected festival",
		zap.String("id", fest.ID),
		zap.String("name", fest.Name),
	)

	state := browse.NewState(fest, browse.Options{
		Fetcher:    client,
		Favorites:  favorites,
		Ratings:    ratings,
		Settings:   settings,
		Categories: cfg.GetStringSlice("feed.categories"),
		FreshFor:   cfg.GetDuration("feed.fresh_for"),
		Logger:     logger,
	})

	// Restore the persisted hide-unavailable preference.
	if hide, err := settings.HideUnavailable(ctx); err == nil && hide {
		if err := state.SetHideUnavailable(ctx, true); err != nil {
			logger.Warn("restoring hide-unavailable failed", zap.Error(err))
		}
	}

	// Populate before serving; a dead feed is not fatal, the state
	// carries the user-facing message and refresh retries.
	if err := state.Load(ctx); err != nil {
		logger.Warn("initial drink load failed",
			zap.String("message", state.ErrorMessage()),
		)
	}

	addr := cfg.GetString("server.host") + ":" + strconv.Itoa(cfg.GetInt("server.port"))
	srv := server.New(addr, logger,
		catalog.NewHandler(state, logger),
		browse.NewHandler(state, festList, logger),
	)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Keep the drink list fresh in the background.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := state.RefreshIfStale(ctx); err != nil {
					logger.Warn("background refresh failed", zap.Error(err))
				}
			}
		}
	}()

	logger.Info("CaskList server ready", zap.String("addr", addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("CaskList server stopped")
}

// resolveFestivals loads the festival list from the remote registry when
// one is configured, falling back to the embedded registry otherwise or
// when the remote fetch fails.
func resolveFestivals(ctx context.Context, cfg *config.Config, client *feed.Client, logger *zap.Logger) ([]models.Festival, string, error) {
	if url := cfg.GetString("feed.registry_url"); url != "" {
		reg, err := client.FetchRegistry(ctx, url)
		if err == nil {
			return reg.Festivals, reg.DefaultFestivalID, nil
		}
		logger.Warn("remote festival registry unavailable, using embedded registry",
			zap.String("url", url),
			zap.Error(err),
		)
	}

	embedded := festivals.NewRegistry()
	list, err := embedded.Festivals()
	if err != nil {
		return nil, "", err
	}
	defaultID, err := embedded.DefaultID()
	if err != nil {
		return nil, "", err
	}
	return list, defaultID, nil
}

// selectStartupFestival honors a persisted selection when it still
// exists in the registry, and falls back to the registry default.
func selectStartupFestival(ctx context.Context, settings prefs.SettingsRepository, festList []models.Festival, defaultID string) (models.Festival, error) {
	selected, err := settings.SelectedFestival(ctx)
	if err != nil {
		return models.Festival{}, err
	}

	for _, id := range []string{selected, defaultID} {
		if id == "" {
			continue
		}
		for _, f := range festList {
			if f.ID == id {
				return f, nil
			}
		}
	}
	if len(festList) > 0 {
		return festList[0], nil
	}
	return models.Festival{}, fmt.Errorf("festival registry is empty")
}
