package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/ai"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/api"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/audit"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/config"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/resume"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/session"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/store"
	"github.com/zhaoqin88/roadgen/cmd/server/internal/users"
	"github.com/zhaoqin88/roadgen/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		WithSource:  !strings.EqualFold(cfg.Server.Env, "prod"),
		File:        cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if strings.EqualFold(cfg.Server.Env, "prod") || strings.EqualFold(cfg.Server.Env, "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 文档库：配置了 MONGO_URI 用 Mongo，否则用内存后端（开发/测试）
	var backend store.RoadmapStore
	if cfg.Mongo.URI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
		ms, err := store.NewMongoStore(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		cancel()
		if err != nil {
			log.Error("mongo connect failed", "error", err)
			os.Exit(1)
		}
		backend = ms
		log.Info("document store ready", "backend", "mongo", "database", cfg.Mongo.Database)
	} else {
		backend = store.NewMemoryStore()
		log.Warn("MONGO_URI not set, using in-memory store; data will not survive restarts")
	}
	roadmapStore := store.WithMetrics(backend)

	userManager, err := users.NewManager(cfg.Data.UsersDir, []byte(cfg.Security.JWTSecret))
	if err != nil {
		log.Error("user manager init failed", "error", err)
		os.Exit(1)
	}
	if err := userManager.EnsureDefaultAdmin(cfg.Security.AdminDefaultPassword); err != nil {
		log.Error("default admin setup failed", "error", err)
		os.Exit(1)
	}

	var auditLogger audit.AuditLogger = audit.NopLogger{}
	if cfg.Data.AuditLogsDir != "" {
		fl, err := audit.NewFileAuditLogger(cfg.Data.AuditLogsDir)
		if err != nil {
			log.Error("audit logger init failed", "error", err)
			os.Exit(1)
		}
		auditLogger = fl
	}

	aiClient := ai.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, cfg.AI.Timeout)
	aiService := ai.NewService(aiClient, cfg.AI.CacheEntries, cfg.AI.CacheTTL)

	router := api.NewRouter(api.RouterConfig{
		Store:          roadmapStore,
		AI:             aiService,
		Sessions:       session.NewManager(0, 0),
		Users:          userManager,
		Audit:          auditLogger,
		Extractor:      resume.NewExtractor(cfg.Upload.MaxFileBytes),
		AllowedOrigins: cfg.Security.CORSAllowedOrigins,
		Version:        version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening",
			"port", cfg.Server.Port,
			"env", cfg.Server.Env,
			"model", cfg.AI.Model,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := roadmapStore.Close(shutdownCtx); err != nil {
		log.Error("store close failed", "error", err)
	}
	log.Info("server stopped")
}
