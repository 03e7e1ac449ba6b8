package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-hartl/glaskasten/internal/api"
	"github.com/m-hartl/glaskasten/internal/config"
	"github.com/m-hartl/glaskasten/internal/docker"
	"github.com/m-hartl/glaskasten/internal/profile"
	"github.com/m-hartl/glaskasten/internal/session"
	"github.com/m-hartl/glaskasten/internal/store"
	"github.com/m-hartl/glaskasten/internal/sweeper"
)

func main() {
	cfgPath := flag.String("config", "", "path to glaskasten.yaml")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	if cfg.AuthToken == "" {
		logger.Warn("no auth token configured — running in open access mode")
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	dc, err := docker.New(cfg.Runtime)
	if err != nil {
		logger.Error("docker client", "error", err)
		os.Exit(1)
	}
	defer dc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := dc.Ping(ctx); err != nil {
		logger.Error("docker ping failed — is Docker running?", "error", err)
		os.Exit(1)
	}
	logger.Info("docker connection OK")

	profiles := profile.NewManager(cfg.ProfilesDir, st)
	mgr := session.NewManager(cfg, dc, profiles, logger)

	swp := sweeper.New(mgr, dc,
		time.Duration(cfg.Lifecycle.IdleTimeoutSeconds)*time.Second,
		time.Duration(cfg.Lifecycle.GraceTimeoutSeconds)*time.Second,
		time.Duration(cfg.Lifecycle.SweepIntervalSeconds)*time.Second,
		logger)
	go swp.Run(ctx)

	srv := api.NewServer(cfg, mgr, profiles, logger)

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // download streaming can be long
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Listen)
	fmt.Fprintf(os.Stderr, "\n  glaskasten daemon ready at http://%s\n\n", cfg.Listen)

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
