package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"clauseguard/guardian"

	"go.uber.org/zap"
)

type Server struct {
	port     int
	guardian *guardian.Guardian
	authKeys map[string][]byte
	limiter  Limiter
	skew     time.Duration
	logger   *zap.Logger
}

func NewServer(g *guardian.Guardian, authKeys map[string][]byte, limiter Limiter, logger *zap.Logger) *http.Server {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		port = 8080
	}

	NewServer := &Server{
		port:     port,
		guardian: g,
		authKeys: authKeys,
		limiter:  limiter,
		skew:     parseSkew(),
		logger:   logger,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	return server
}
