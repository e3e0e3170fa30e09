package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"feedviewer/internal/extractor"
	"feedviewer/internal/fetcher"
	"feedviewer/internal/infrastructure/config"
	"feedviewer/internal/infrastructure/logger"
	"feedviewer/internal/notify"
	"feedviewer/internal/parser"
	transport "feedviewer/internal/transport/http"
	"feedviewer/internal/usecase"
	"feedviewer/storage"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

// Options are the command line overrides for Run.
type Options struct {
	ConfigPath string
	EnvFile    string
	Addr       string
	// Root overrides app.root when non-nil.
	Root *string
}

// Run starts feedviewer and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, opts Options) error {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Root != nil {
		cfg.App.Root = *opts.Root
	}

	log := logger.New(cfg.Logging, os.Stdout).With(slog.String("app", cfg.GetAppName()))

	handler, err := Build(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to start", slog.Any("error", err))
		return err
	}

	addr := cfg.GetHTTPAddr()
	if opts.Addr != "" {
		addr = opts.Addr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server started", slog.String("addr", addr), slog.String("root", cfg.App.Root))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// Build wires every component, performs the initial fetch of each configured
// feed and returns the HTTP handler. A feed that cannot be fetched at startup
// aborts the build.
func Build(ctx context.Context, cfg *config.Config, log *slog.Logger) (http.Handler, error) {
	notifier, err := newNotifier(cfg, log)
	if err != nil {
		return nil, err
	}

	var (
		feeds storage.FeedStorage = storage.NewFeedStore(log)
		posts storage.PostStorage = storage.NewPostCache()
	)

	processor := usecase.NewFeedProcessingUseCase(
		fetcher.New(nil, log),
		parser.New(log),
		feeds,
		notifier,
		log,
		cfg.GetFeedNames(),
		cfg.GetStaleAfter(),
	)
	for _, url := range cfg.GetFeedURLs() {
		if _, err := processor.ProcessFeed(ctx, url); err != nil {
			return nil, fmt.Errorf("initial fetch failed: %w", err)
		}
	}
	log.Info("Initial feed fetch completed", slog.Int("feeds", feeds.Len()))

	api, err := transport.NewApi(
		usecase.NewFeedGetterUseCase(feeds, processor),
		usecase.NewPostUseCase(posts, extractor.New(log), log),
		feeds,
		posts,
		cfg.App.Root,
		log,
	)
	if err != nil {
		return nil, err
	}

	var handler http.Handler = api.Router()
	handler = transport.CORSMiddleware()(handler)
	handler = transport.LoggingMiddleware(log)(handler)
	handler = transport.RequestIDMiddleware(handler)
	return handler, nil
}

func newNotifier(cfg *config.Config, log *slog.Logger) (usecase.FeedNotifier, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return notify.Nop{}, nil
	}
	n, err := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topics.FeedRefreshed, log)
	if err != nil {
		return nil, fmt.Errorf("kafka notifier: %w", err)
	}
	return n, nil
}

// loadEnvFile loads KEY=VALUE pairs into the environment. A missing file is
// not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
