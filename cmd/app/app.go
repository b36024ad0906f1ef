package app

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"mirfeed/internal/config"
	"mirfeed/internal/database"
	"mirfeed/internal/repository"
	"mirfeed/internal/seed"
	"mirfeed/internal/service"
	"mirfeed/internal/storage"
)

// App wires storage, services and the demo feed. db is nil for the memory driver.
func App(ctx context.Context, cfg *config.Config, log *zap.Logger) (*database.DB, *repository.Repository, *service.Service) {
	// connection DB
	var db *database.DB
	var sqlDB *sqlx.DB
	if cfg.StorageDriver == config.StoragePostgres {
		var err error
		db, err = database.ConnectDB(cfg, log.Named("db"))
		if err != nil {
			log.Fatal("не удалось подключиться к БД", zap.Error(err))
		}
		sqlDB = db.DB
	}

	// connection MinIO
	var images storage.Storage
	if cfg.MinIO.Enabled {
		minioClient, err := storage.NewMinIOClient(ctx, cfg, log.Named("minio"))
		if err != nil {
			log.Fatal("не удалось инициализировать MinIO", zap.Error(err))
		}
		images = minioClient
	} else {
		log.Info("MinIO выключен, загрузка изображений недоступна")
	}

	// enabling dependencies
	repo := repository.NewRepository(sqlDB)

	services := service.NewService(repo, cfg, images, log)
	services.Session.Restore(ctx)

	if cfg.SeedFeed {
		posts, err := seed.Default()
		if err != nil {
			log.Fatal("не удалось загрузить демо-ленту", zap.Error(err))
		}
		service.SeedFeed(repo.Post, posts, time.Now())
		log.Info("демо-лента загружена", zap.Int("posts", len(posts)))
	}

	return db, repo, services
}
