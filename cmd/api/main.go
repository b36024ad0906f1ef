package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"mirfeed/cmd/app"
	"mirfeed/internal/config"
	handlers "mirfeed/internal/handler"
	"mirfeed/internal/logger"
	"mirfeed/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	log := logger.Must(cfg.LogLevel)
	defer log.Sync()

	if cfg.Session.Secret == "" {
		log.Fatal("SESSION_SECRET не установлен в .env файле")
	}

	db, _, services := app.App(context.Background(), cfg, log)
	if db != nil {
		defer db.CloseDB()
	}

	handler := handlers.NewHandlers(services, cfg, log.Named("http"))

	// setting up routes
	router := handlers.NewRouter(handler)

	handlerChain := middleware.Chain(
		router,
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware(log.Named("http")),
		middleware.RecoveryMiddleware(log),
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Info("сервер запущен",
		zap.String("addr", addr),
		zap.String("storage", cfg.StorageDriver),
		zap.Bool("images", cfg.MinIO.Enabled))

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatal("ошибка запуска сервера", zap.Error(err))
	}
}
