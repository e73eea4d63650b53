package main

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/yourname/mapscenes-backend-go/internal/api"
	"github.com/yourname/mapscenes-backend-go/internal/config"
	"github.com/yourname/mapscenes-backend-go/internal/database"
	"github.com/yourname/mapscenes-backend-go/internal/repository"
	"github.com/yourname/mapscenes-backend-go/internal/service"
	"github.com/yourname/mapscenes-backend-go/internal/store"
)

func main() {
	// 加载配置
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	// 初始化数据库
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create data directory")
	}
	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.NewMigrationManager(db, log).RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	sceneStore := store.NewSceneStore(db)
	markerStore := store.NewUserMarkerStore(db)
	repo := repository.NewSceneRepository(sceneStore, markerStore, log)

	// 首次启动时写入示例景点，集合非空时跳过
	if err := repo.InitializeSampleData(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize sample data")
	}

	state := service.NewMapState(repo, log)

	// 初始化路由
	router := api.SetupRouter(cfg, repo, state, log)

	// 启动服务器
	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
