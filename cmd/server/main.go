package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/b14tz/bluph/internal/auth"
	"github.com/b14tz/bluph/internal/cache"
	"github.com/b14tz/bluph/internal/config"
	"github.com/b14tz/bluph/internal/database"
	"github.com/b14tz/bluph/internal/handlers"
	"github.com/b14tz/bluph/internal/registry"
)

func main() {
	cfg := config.Load()
	logrus.SetLevel(cfg.LogLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RedisURL != "" {
		if err := cache.Init(ctx, cfg.RedisURL); err != nil {
			logrus.WithError(err).Warn("Redis unavailable; action history disabled")
		} else {
			defer cache.Close()
			logrus.Info("Connected to Redis")
		}
	}
	if cfg.DatabaseURL != "" {
		if err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
			logrus.WithError(err).Warn("Postgres unavailable; result persistence disabled")
		} else {
			defer database.Close()
			logrus.Info("Connected to Postgres")
		}
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = randomSecret()
	}
	authSvc := auth.NewService(secret, auth.DefaultTokenTTL)

	reg := registry.NewGameRegistry()
	reg.StartSweeper(ctx, registry.DefaultSweepInterval)
	dir := registry.NewPlayerDirectory()

	srv := handlers.NewServer(logrus.StandardLogger(), reg, dir, authSvc, handlers.Timeouts{
		Response:       cfg.ResponseTimeout,
		CardLoss:       cfg.CardLossTimeout,
		ReconnectGrace: cfg.ReconnectGrace,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logrus.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("HTTP shutdown error")
		}
	}()

	logrus.WithField("addr", cfg.Addr).Info("Server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("Server failed")
	}
}

// randomSecret generates an ephemeral signing secret for development runs
// without COUP_JWT_SECRET. Tokens die with the process.
func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		logrus.WithError(err).Fatal("Failed generating session secret")
	}
	return hex.EncodeToString(buf)
}
