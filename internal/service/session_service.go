package service

import (
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"mirfeed/internal/models"
	"mirfeed/internal/repository"
	"mirfeed/internal/storage"
)

type SessionService interface {
	Restore(ctx context.Context)
	Login(ctx context.Context, provider models.Provider) (*models.User, error)
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, bool)
	UploadAvatar(ctx context.Context, fileName string, file io.Reader, size int64) (*models.User, error)
	Current() *models.User
	IsAuthenticated() bool
}

type sessionService struct {
	mu         sync.Mutex
	user       *models.User
	avatarObj  string
	storage    repository.LocalStorage
	images     storage.Storage
	codec      *sessionCodec
	storageKey string
	log        *zap.Logger
}

type SessionOptions struct {
	Secret     string
	StorageKey string
	Now        func() time.Time
}

func NewSessionService(store repository.LocalStorage, images storage.Storage, opts SessionOptions, log *zap.Logger) SessionService {
	if opts.StorageKey == "" {
		opts.StorageKey = "user"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &sessionService{
		storage:    store,
		images:     images,
		codec:      newSessionCodec(opts.Secret, opts.Now),
		storageKey: opts.StorageKey,
		log:        log,
	}
}

// Restore loads the persisted session once at startup. Anything unreadable
// leaves the viewer signed out.
func (s *sessionService) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil

	raw, ok, err := s.storage.GetItem(ctx, s.storageKey)
	if err != nil {
		s.log.Warn("не удалось прочитать сохранённую сессию", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	user, err := s.codec.Decode(raw)
	if err != nil {
		s.log.Warn("сохранённая сессия повреждена, начинаем без входа", zap.Error(err))
		return
	}

	s.user = user
	s.log.Info("сессия восстановлена", zap.String("user_id", user.ID))
}

func (s *sessionService) Login(ctx context.Context, provider models.Provider) (*models.User, error) {
	user, err := MockIdentity(provider)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropAvatar(ctx)
	s.user = user
	s.persist(ctx)

	s.log.Info("вход выполнен",
		zap.String("provider", string(provider)),
		zap.String("user_id", user.ID))

	copied := *user
	return &copied, nil
}

func (s *sessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasSignedIn := s.user != nil
	s.user = nil
	s.dropAvatar(ctx)

	if err := s.storage.RemoveItem(ctx, s.storageKey); err != nil {
		s.log.Error("не удалось удалить сохранённую сессию", zap.Error(err))
	}

	if wasSignedIn {
		s.log.Info("выход выполнен")
	}
}

// UpdateProfile merges the non-nil fields into the session. Without a session
// the call is ignored and reports false.
func (s *sessionService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil && update.Avatar != nil {
		s.dropAvatar(ctx)
	}

	return s.updateProfile(ctx, update)
}

func (s *sessionService) UploadAvatar(ctx context.Context, fileName string, file io.Reader, size int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, newError(CodeUnauthenticated, reasonSignInToAvatar)
	}

	if s.images == nil {
		return nil, ErrImagesDisabled
	}

	objectName, imageURL, err := s.images.UploadImage(ctx, "avatars/"+s.user.ID, fileName, file, size)
	if err != nil {
		return nil, wrapError(CodeStorage, "Не удалось загрузить фото", err)
	}

	s.dropAvatar(ctx)
	s.avatarObj = objectName

	user, _ := s.updateProfile(ctx, models.ProfileUpdate{Avatar: &imageURL})
	return user, nil
}

func (s *sessionService) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}

	copied := *s.user
	return &copied
}

func (s *sessionService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user != nil
}

func (s *sessionService) updateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, bool) {
	if s.user == nil {
		return nil, false
	}

	// blank identity fields keep their current value
	updated := *s.user
	if update.Name != nil && !isBlank(*update.Name) {
		updated.Name = *update.Name
	}
	if update.Username != nil && !isBlank(*update.Username) {
		updated.Username = *update.Username
	}
	if update.Email != nil && !isBlank(*update.Email) {
		updated.Email = *update.Email
	}
	if update.Avatar != nil {
		updated.Avatar = *update.Avatar
	}

	s.user = &updated
	s.persist(ctx)

	copied := updated
	return &copied, true
}

// dropAvatar removes the uploaded avatar that is no longer referenced.
// Failures are logged.
func (s *sessionService) dropAvatar(ctx context.Context) {
	if s.avatarObj == "" || s.images == nil {
		s.avatarObj = ""
		return
	}

	if err := s.images.DeleteImage(ctx, s.avatarObj); err != nil {
		s.log.Warn("не удалось удалить старое фото",
			zap.String("object", s.avatarObj),
			zap.Error(err))
	}
	s.avatarObj = ""
}

// persist writes the current session. Errors are logged, never returned.
func (s *sessionService) persist(ctx context.Context) {
	token, err := s.codec.Encode(s.user)
	if err != nil {
		s.log.Error("не удалось сериализовать сессию", zap.Error(err))
		return
	}

	if err := s.storage.SetItem(ctx, s.storageKey, token); err != nil {
		s.log.Error("не удалось сохранить сессию", zap.Error(err))
	}
}
