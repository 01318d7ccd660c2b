package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clauseguard/config"
	"clauseguard/guardian"
	"clauseguard/internal/logging"
	"clauseguard/internal/server"
	"clauseguard/scoring"
	"clauseguard/services"
	"clauseguard/types"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	if services.NatsConn != nil {
		services.NatsConn.Drain()
	}
	if services.RedisClient != nil {
		services.RedisClient.Close()
	}

	logger.Info("server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

/*
Loads authentication secrets from environment variables into a map
*/
func loadSecrets() (map[string][]byte, error) {
	// Build a map of API keys -> secrets
	secrets := map[string][]byte{}

	for i := 1; ; i++ {
		key := os.Getenv(fmt.Sprintf("API_KEY_CLIENT_%d", i))
		secret := os.Getenv(fmt.Sprintf("API_SECRET_CLIENT_%d", i))
		if key == "" || secret == "" {
			break
		}
		secrets[key] = []byte(secret)
	}

	if len(secrets) == 0 {
		return nil, errors.New("could not load expected api keys")
	}
	return secrets, nil
}

func loadConfig(logger *zap.Logger) (types.Config, error) {
	path := config.Path()
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("no config file found, using defaults", zap.String("path", path))
		return config.Parse([]byte("{}"))
	}
	return cfg, err
}

func buildLimiter(cfg types.Config) server.Limiter {
	if cfg.RateLimit.Limit == 0 || services.RedisClient == nil {
		return nil
	}
	interval := time.Duration(cfg.RateLimit.IntervalSeconds) * time.Second
	return services.NewVelocity(services.RedisClient, interval, cfg.RateLimit.Limit)
}

func buildGuardian(cfg types.Config, logger *zap.Logger) (*guardian.Guardian, error) {
	opts := guardian.Options{
		DefaultMode: cfg.Personas.Default,
		PassTimeout: time.Duration(cfg.Generator.TimeoutMs) * time.Millisecond,
		Logger:      logger,
	}

	if cfg.Services.Redis.Enabled {
		client, err := services.ConnectRedis(cfg.Services.Redis.Host)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis: %w", err)
		}
		opts.Store = services.NewAnalysisStore(client, time.Duration(cfg.Services.Redis.TTLSeconds)*time.Second)
	}

	if cfg.Services.Nats.Enabled {
		conn, err := services.ConnectNats(cfg.Services.Nats.Url)
		if err != nil {
			return nil, fmt.Errorf("could not connect to nats: %w", err)
		}
		opts.Publisher = services.NewVerdictPublisher(conn, cfg.Services.Nats.Subject)
		for _, v := range cfg.Services.Nats.AlertVerdicts {
			opts.AlertVerdicts = append(opts.AlertVerdicts, scoring.Verdict(v))
		}
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set, /analyze is disabled")
	} else {
		completer, err := guardian.NewGeminiCompleter(context.Background(), apiKey, cfg.Generator.Model, guardian.CoreInstruction())
		if err != nil {
			return nil, err
		}
		opts.Completer = completer
	}

	return guardian.New(opts), nil
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	logger, err := logging.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	g, err := buildGuardian(cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up analysis", zap.Error(err))
	}

	authKeys, err := loadSecrets()
	if err != nil {
		logger.Fatal("failed to load secrets", zap.Error(err))
	}

	server := server.NewServer(g, authKeys, buildLimiter(cfg), logger)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)
	go gracefulShutdown(server, logger, done)

	logger.Info("listening", zap.String("addr", server.Addr))
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Fatal("http server error", zap.Error(err))
	}

	<-done
	logger.Info("graceful shutdown complete")
}
