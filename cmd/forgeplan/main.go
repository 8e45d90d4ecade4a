package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/forgeplan/internal/catalog"
	"github.com/claude/forgeplan/internal/config"
	"github.com/claude/forgeplan/internal/engine"
	"github.com/claude/forgeplan/internal/server"
	"github.com/claude/forgeplan/internal/session"
	"github.com/claude/forgeplan/internal/storage"
	"github.com/robfig/cron"
	"golang.org/x/time/rate"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// limiterIdle is how long a session's rate limiter is kept without use.
const limiterIdle = time.Hour

// sessionBackend is satisfied by both session stores.
type sessionBackend interface {
	session.Store
	session.LogStore
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("forgeplan starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Session store
	var store sessionBackend
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		db, err := storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database connected")
		store = db
	default:
		if *migrateOnly {
			log.Info("migrate-only: memory store has no migrations")
			return
		}
		store = session.NewMemoryStore()
		log.Info("using in-memory session store")
	}

	// Exercise catalog
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			log.Error("failed to load catalog", "path", cfg.Catalog.Path, "error", err)
			os.Exit(1)
		}
	}
	log.Info("catalog loaded", "exercises", cat.Len())

	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	gen := engine.New(cat, engine.NewRandomPicker(seed))

	limit := rate.Limit(0)
	if cfg.Session.GeneratePerMinute > 0 {
		limit = rate.Limit(cfg.Session.GeneratePerMinute / 60)
	}
	srv := server.New(store, store, gen, server.Options{
		Secret:        []byte(cfg.Session.Secret),
		SessionTTL:    cfg.Session.TTL,
		GenerateRate:  limit,
		GenerateBurst: cfg.Session.GenerateBurst,
		SecureCookie:  cfg.Session.SecureCookie,
	}, log)

	// Expired session purge
	purge := cron.New()
	err = purge.AddFunc(cfg.Session.PurgeSchedule, func() {
		purgeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := store.PurgeExpired(purgeCtx, time.Now().Add(-cfg.Session.TTL))
		if err != nil {
			log.Warn("session purge failed", "error", err)
			return
		}
		pruned := srv.PruneLimiters(limiterIdle)
		if n > 0 || pruned > 0 {
			log.Info("sessions purged", "sessions", n, "limiters", pruned)
		}
	})
	if err != nil {
		log.Error("invalid purge schedule", "schedule", cfg.Session.PurgeSchedule, "error", err)
		os.Exit(1)
	}
	purge.Start()
	defer purge.Stop()

	// Start server: tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "store", cfg.Database.Driver)
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
