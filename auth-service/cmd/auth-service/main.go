package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/cache"
	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/config"
	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/service"
	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/storage/postgres"
	authhttp "github.com/vetrovaas/go-clinical-platform/auth-service/internal/transport/http"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting application", "env", cfg.Env)

	// Корневой контекст по сигналам.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// Подключение к БД c таймаутом.
	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	str, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("postgres_connected")

	// Сервис.
	srvc := service.New(str, cfg.Auth)

	// Кэш refresh-токенов опционален: пустой URL означает работу напрямую с БД.
	var rcache cache.RefreshCache
	if cfg.Redis.RedisURL != "" {
		rcache, err = cache.NewRedisCache(cfg.Redis.RedisURL, "auth:rt:")
		if err != nil {
			log.Error("redis_connect_failed", slog.String("err", err.Error()))
			rootCancel()
			str.Close()
			os.Exit(1)
		}
		srvc.SetRefreshCache(rcache)
		log.Info("redis_cache_enabled")
	}
	log.Info("service_initialized")

	var ready int32 // 0 — not ready; 1 — ready
	probesAddr := cfg.Probes.Addr()

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())

	probesSrv := &http.Server{
		Addr:              probesAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("probes_listen_start", "addr", probesAddr)
		if err := probesSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("probes_serve_failed", slog.String("err", err.Error()))
		}
	}()

	// Основной API-сервер.
	router := authhttp.NewRouter(srvc, authhttp.Options{
		Logger:    log,
		Timeout:   cfg.Timeouts.Service,
		AdminRole: cfg.Auth.AdminRole,
	})

	apiAddr := cfg.HTTP.Addr()
	apiSrv := &http.Server{
		Addr:              apiAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Фоновая очистка просроченных refresh-токенов.
	go srvc.RunJanitor(rootCtx, log, cfg.Janitor.Interval, cfg.Janitor.Timeout)

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", slog.String("addr", apiAddr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)

	// Ожидание сигнала завершения или фатальной ошибки сервера.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	// Graceful stop с таймаутом.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
	}
	shutdownCancel()

	_ = probesSrv.Shutdown(context.Background())

	// Явная очистка перед выходом.
	rootCancel()
	if rcache != nil {
		_ = rcache.Close()
	}
	str.Close()

	log.Info("service_stopped")
}

// setupLogger — инициализация логгера с учетом окружения.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
