package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangnt1552314/ytmp3api/internal/config"
	"github.com/sangnt1552314/ytmp3api/internal/handlers"
	"github.com/sangnt1552314/ytmp3api/internal/logger"
	"github.com/sangnt1552314/ytmp3api/internal/metrics"
	"github.com/sangnt1552314/ytmp3api/internal/services"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	v := config.New()

	cmd := &cobra.Command{
		Use:           "ytmp3api",
		Short:         "YouTube MP3 metadata and search API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnvFile(envFile)

			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.Flags().String("port", "", "port to listen on (overrides PORT)")
	cmd.Flags().String("log-level", "", "log level (overrides LOG_LEVEL)")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("log_level", cmd.Flags().Lookup("log-level"))

	return cmd
}

func serve(cfg config.Config) error {
	logFile, err := logger.Setup(cfg.LogDir, cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logFile.Close()

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()

	cache, err := services.NewCache(cfg.RedisURL, cfg.CacheTTL, cfg.CacheMaxEntries, m)
	if err != nil {
		return fmt.Errorf("setup cache: %w", err)
	}
	defer cache.Close()

	resolver, searcher, err := buildFetchers(cfg, cache, m)
	if err != nil {
		return err
	}

	router := handlers.NewRouter(handlers.NewHandler(resolver, searcher, cfg), m)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Setup signal handling for graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(c)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-c:
		log.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

// buildFetchers layers cache over retry/breaker over the raw adapters so
// cache hits never touch the breaker.
func buildFetchers(cfg config.Config, cache *services.Cache, m *metrics.Metrics) (services.VideoResolver, services.VideoSearcher, error) {
	policy := services.DefaultRetryPolicy()
	policy.Timeout = cfg.FetchTimeout
	policy.MaxRetries = cfg.FetchMaxRetries
	if cfg.BreakerFailures > 0 {
		policy.BreakerFailures = uint32(cfg.BreakerFailures)
	}
	if cfg.BreakerOpenTimeout > 0 {
		policy.BreakerOpenTimeout = cfg.BreakerOpenTimeout
	}

	httpClient := &http.Client{Timeout: cfg.FetchTimeout}

	var rawSearcher services.VideoSearcher
	if cfg.UseDataAPI() {
		s, err := services.NewDataAPISearcher(context.Background(), cfg.YouTubeAPIKey, cfg.SearchMaxResults)
		if err != nil {
			return nil, nil, fmt.Errorf("setup data api searcher: %w", err)
		}
		rawSearcher = s
		log.Info().Msg("Search backend: YouTube Data API")
	} else {
		rawSearcher = services.NewYtDlpSearcher(cfg.YtDlpPath, cfg.SearchMaxResults)
		log.Info().Str("path", cfg.YtDlpPath).Msg("Search backend: yt-dlp")
	}

	yt := services.NewYouTubeService(httpClient)
	if cfg.YtDlpEnrich {
		yt.WithEnricher(services.NewYtDlpSearcher(cfg.YtDlpPath, cfg.SearchMaxResults))
	}

	resolver := services.NewCachedResolver(
		services.NewResilientResolver(yt, policy, m),
		cache,
	)
	searcher := services.NewCachedSearcher(
		services.NewResilientSearcher(rawSearcher, policy, m),
		cache,
	)
	return resolver, searcher, nil
}
