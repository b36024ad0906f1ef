package service

import (
	"go.uber.org/zap"

	"mirfeed/internal/config"
	"mirfeed/internal/repository"
	"mirfeed/internal/storage"
)

type Service struct {
	Session SessionService
	Feed    FeedService
}

// NewService wires both stores. images may be nil when object storage is off.
func NewService(rep *repository.Repository, cfg *config.Config, images storage.Storage, log *zap.Logger) *Service {
	session := NewSessionService(rep.Storage, images, SessionOptions{
		Secret:     cfg.Session.Secret,
		StorageKey: cfg.Session.StorageKey,
	}, log.Named("session"))

	return &Service{
		Session: session,
		Feed:    NewFeedService(rep.Post, session, images, log.Named("feed")),
	}
}
