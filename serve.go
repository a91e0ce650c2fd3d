package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-map/algo"
	"campus-map/cache"
	"campus-map/codec"
	"campus-map/config"
	"campus-map/db"
	"campus-map/handler"
	"campus-map/ingest"
	"campus-map/logger"
	"campus-map/metrics"
	"campus-map/model"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.SetupWith(cfg.LogLevel, cfg.LogFormat)
	handler.JWTSecret = []byte(cfg.JWTSecret)

	// 1. 加载地图：数据库 > 二进制快照 > 文本种子
	m, paths, err := loadMap(cfg)
	if err != nil {
		return err
	}
	log.Info("map_loaded", "nodes", m.NNodes(), "edges", m.NEdges(), "buildings", m.NBuildings(), "mpos", m.NMPOs(), "paths", paths.Len())
	metrics.SetEntityCounts(m.NNodes(), m.NEdges(), m.NBuildings(), m.NMPOs())
	handler.Shared = algo.NewSharedMap(m, paths)

	// 2. 路径缓存 (可选)
	handler.Routes = cache.NewRouteCache(cache.OpenRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), cfg.Redis.TTL)
	defer handler.Routes.Close()

	// 3. 启动 HTTP 服务
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http_listen", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
	case <-ctx.Done():
		log.Info("http_shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http_shutdown_failed", "err", err)
		}
	}

	// 退出前再写一次，保证最后的修改落盘
	if handler.Persist != nil {
		if err := handler.PersistNow(); err != nil {
			log.Error("map_persist_failed", "err", err)
		}
	}
	return nil
}

// loadMap 按配置加载地图，并设置修改后的持久化方式
func loadMap(cfg *config.Config) (*algo.Map, *model.SavedPaths, error) {
	if cfg.DB.Enabled {
		if err := db.InitDB(cfg.DSN()); err != nil {
			return nil, nil, err
		}
		if err := db.SeedIfEmpty(db.DB, cfg.SeedFile); err != nil {
			logger.L().Warn("db_seed_failed", "err", err)
		}
		m, paths, err := db.LoadMap(db.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("从数据库加载地图失败: %w", err)
		}
		handler.Users = db.NewUserStore(db.DB)
		handler.Persist = func(m *algo.Map, paths *model.SavedPaths) error {
			return db.SaveMap(db.DB, m, paths)
		}
		return m, paths, nil
	}

	handler.Persist = func(m *algo.Map, paths *model.SavedPaths) error {
		if err := codec.SaveMapFile(cfg.MapFile, m); err != nil {
			return err
		}
		return codec.SaveSavedPathsFile(cfg.PathsFile, paths)
	}

	m, err := codec.LoadMapFile(cfg.MapFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.L().Info("map_seed", "file", cfg.SeedFile)
		res, err := ingest.ParseFile(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		return res.Map, res.Paths, nil
	}
	if err != nil {
		return nil, nil, err
	}

	paths, err := codec.LoadSavedPathsFile(cfg.PathsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return m, model.NewSavedPaths(), nil
	}
	if err != nil {
		return nil, nil, err
	}
	return m, paths, nil
}
