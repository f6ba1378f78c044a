package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"social-dashboard/internal/core/auth"
	"social-dashboard/internal/core/cache"
	"social-dashboard/internal/core/config"
	"social-dashboard/internal/core/logger"
	"social-dashboard/internal/core/server"
	"social-dashboard/internal/domain"
	"social-dashboard/internal/feature/dashboard"
	"social-dashboard/internal/repo"
	"social-dashboard/internal/transport/http/handler"
	"social-dashboard/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	log, cleanup := logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Enable:     cfg.Log.File.Enable,
		Filename:   cfg.Log.File.Filename,
		MaxSizeMB:  cfg.Log.File.MaxSizeMB,
		MaxBackups: cfg.Log.File.MaxBackups,
		MaxAgeDays: cfg.Log.File.MaxAgeDays,
		Compress:   cfg.Log.File.Compress,
	})
	defer cleanup()
	undo := logger.RedirectStdLog(log, zap.WarnLevel)
	defer undo()

	// remote source, optionally behind redis
	var src domain.Source = repo.NewPlaceholderRepo(
		repo.NewHTTPClient(cfg.Remote.Timeout(), log.Named("remote")), cfg.Remote.BaseURL)
	if cfg.Cache.Enabled {
		c := mustCache(cfg, log)
		defer c.Close()
		src = repo.NewCachedSource(c, src, cfg.Cache.TTL())
		log.Info("remote cache enabled", zap.String("redis", cfg.Redis.Addr), zap.Duration("ttl", cfg.Cache.TTL()))
	}

	viewLog := log.Named("dashboard")
	reg := dashboard.NewRegistry(func() *dashboard.View {
		return dashboard.NewView(src, dashboard.Options{
			PostsPerPage:      cfg.Dashboard.PostsPerPage,
			DiscardStaleLoads: cfg.Dashboard.DiscardStaleLoads,
			Log:               viewLog,
		})
	}, cfg.Dashboard.SessionIdle(), viewLog)
	defer reg.Close()

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	if idle := cfg.Dashboard.SessionIdle(); idle > 0 {
		go reg.Run(janitorCtx, max(idle/4, time.Minute))
	}

	sessions := auth.NewSessions(sessionSecret(cfg, log), cfg.Session.Issuer, cfg.Session.TTL())

	mods := &router.Modules{}
	mods.Register(handler.NewDashboard(reg, handler.Options{
		SettleWait: cfg.Dashboard.SettleWait(),
		AppName:    cfg.App.Name,
		Author:     cfg.App.Author,
		Log:        viewLog,
	}))
	r := router.NewDashboardEngine(router.Deps{Log: log, Config: cfg, Sessions: sessions, Modules: mods})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("dashboard starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1/dashboard"),
		zap.String("remote", cfg.Remote.BaseURL),
		zap.Int("posts_per_page", cfg.Dashboard.PostsPerPage),
		zap.Bool("discard_stale_loads", cfg.Dashboard.DiscardStaleLoads),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("dashboard start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("dashboard stopped gracefully")
}

func mustCache(cfg *config.Config, l *zap.Logger) *cache.Cache {
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		l.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	return c
}

// sessionSecret falls back to a per-process random key; sessions then end on restart.
func sessionSecret(cfg *config.Config, l *zap.Logger) []byte {
	if cfg.Session.Secret != "" {
		return []byte(cfg.Session.Secret)
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		l.Fatal("generate session secret", zap.Error(err))
	}
	l.Warn("session.secret is empty, using a random one")
	return b
}
