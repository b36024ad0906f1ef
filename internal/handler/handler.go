package handlers

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"mirfeed/internal/config"
	"mirfeed/internal/service"
)

type Handlers struct {
	SessionService service.SessionService
	FeedService    service.FeedService
	Cfg            *config.Config
	Validate       *validator.Validate
	Log            *zap.Logger
}

func NewHandlers(service *service.Service, config *config.Config, log *zap.Logger) *Handlers {
	return &Handlers{
		SessionService: service.Session,
		FeedService:    service.Feed,
		Cfg:            config,
		Validate:       validator.New(),
		Log:            log,
	}
}
