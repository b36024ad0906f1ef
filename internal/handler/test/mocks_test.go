package test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"mirfeed/internal/models"
	"mirfeed/internal/service"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Restore(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockSessionService) Login(ctx context.Context, provider models.Provider) (*models.User, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockSessionService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, bool) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*models.User), args.Bool(1)
}

func (m *MockSessionService) UploadAvatar(ctx context.Context, fileName string, file io.Reader, size int64) (*models.User, error) {
	args := m.Called(ctx, fileName, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockSessionService) Current() *models.User {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.User)
}

func (m *MockSessionService) IsAuthenticated() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) CreatePost(ctx context.Context, req service.CreatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, req.Content, req.Image != nil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockFeedService) ToggleLike(ctx context.Context, postID int64) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockFeedService) AddComment(ctx context.Context, postID int64, text string) (*models.Comment, error) {
	args := m.Called(ctx, postID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockFeedService) IncrementShare(ctx context.Context, postID int64) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockFeedService) ToggleCommentsExpanded(postID int64) (bool, error) {
	args := m.Called(postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeedService) SetDraft(postID int64, text string) error {
	args := m.Called(postID, text)
	return args.Error(0)
}

func (m *MockFeedService) Feed() []models.PostView {
	args := m.Called()
	return args.Get(0).([]models.PostView)
}

func (m *MockFeedService) Post(postID int64) (*models.PostView, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostView), args.Error(1)
}
