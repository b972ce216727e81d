package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brainlift/internal/api"
	"github.com/matzehuels/brainlift/pkg/cache"
	"github.com/matzehuels/brainlift/pkg/pipeline"
	"github.com/matzehuels/brainlift/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen     string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the BrainLift HTTP API server",
		Long: `Run the BrainLift HTTP API server.

Storage and caching depend on configuration: with mongo_uri set (or
MONGODB_URI) BrainLifts persist in MongoDB, otherwise they live in memory
for the lifetime of the process. With redis_addr set (or REDIS_ADDR) the
pipeline cache is shared via Redis, otherwise the local file cache is
used.

Analysis endpoints require GROQ_API_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), listen, configPath)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "bind address (default from config, then :8080)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ~/.config/brainlift/config.toml)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, listen, configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Listen = listen
	}

	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	cch, err := c.newServeCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer cch.Close()

	classifier, err := c.newClassifier(cfg, "", 0)
	if err != nil {
		printWarning("Analysis disabled: %v", err)
		classifier = nil
	}

	runner := pipeline.NewRunner(cch, nil, nil, nil, c.Logger)
	if classifier != nil {
		runner.Classifier = classifier
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.NewServer(st, runner, c.Logger).Router(api.Config{AllowedOrigins: cfg.AllowedOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newStore picks MongoDB when configured, the in-memory store otherwise.
func (c *CLI) newStore(ctx context.Context, cfg Config) (store.Store, error) {
	if cfg.MongoURI == "" {
		printWarning("No mongo_uri configured, BrainLifts will not survive restarts")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.MongoURI})
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	return st, nil
}

// newServeCache picks Redis when configured, the file cache otherwise.
func (c *CLI) newServeCache(ctx context.Context, cfg Config) (cache.Cache, error) {
	if cfg.RedisAddr == "" {
		return newCache(false)
	}
	cch, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
	if err != nil {
		return nil, fmt.Errorf("connect to Redis: %w", err)
	}
	return cch, nil
}
