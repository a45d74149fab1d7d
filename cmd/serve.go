package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"promptcraft_server/config"
	"promptcraft_server/internal/ai"
	"promptcraft_server/internal/api"
	"promptcraft_server/internal/registry"
	"promptcraft_server/internal/storage"
	"promptcraft_server/internal/studio"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP studio API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func newGenerator(c config.Config) *ai.Generator {
	return ai.NewGenerator(c.OpenAIKey,
		ai.WithModel(c.OpenAIModel),
		ai.WithBaseURL(c.OpenAIBaseURL),
		ai.WithTemperature(c.AITemperature),
	)
}

// cappedTimeout returns next, or ceiling when next would exceed it.
func cappedTimeout(next, ceiling time.Duration) time.Duration {
	if next > ceiling {
		log.Printf("WARN: AI_TIMEOUT %s exceeds the startup value %s; restart to raise it", next, ceiling)
		return ceiling
	}
	return next
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// --- Dependency Initialization ---
	store, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	reg, err := registry.New()
	if err != nil {
		return err
	}

	aiGenerator := newGenerator(cfg)
	st := studio.New(aiGenerator,
		studio.WithTimeout(cfg.AITimeout),
		studio.WithHistoryLimit(cfg.HistoryLimit),
	)
	limiter := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	apiHandler := api.NewAPIHandler(st, aiGenerator, store, reg)

	// The server's write deadline is fixed at startup, so reloads can only
	// shorten the AI timeout.
	maxTimeout := cfg.AITimeout
	if config.Watch(func(c config.Config) {
		st.SetTimeout(cappedTimeout(c.AITimeout, maxTimeout))
		limiter.Update(c.RateLimitRPS, c.RateLimitBurst)
	}) {
		log.Println("Info: Watching config file for changes.")
	}

	// --- Start API Server ---
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in Gin Debug Mode")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	api.RegisterRoutes(router, apiHandler, limiter)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
		// The write timeout must outlast one AI call plus rendering
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AITimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting API server on %s\n", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		log.Println("API server has stopped listening.")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Printf("Received signal: %s. Shutting down server...", sig)
	case err := <-serverErr:
		log.Printf("ERROR: API server listen error: %v", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server forced shutdown error: %v", err)
	} else {
		log.Println("API server gracefully stopped.")
	}

	log.Println("Application exiting.")
	return nil
}
