package service

import (
	"context"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"mirfeed/internal/models"
	"mirfeed/internal/repository"
	"mirfeed/internal/seed"
	"mirfeed/internal/storage"
)

type FeedService interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	ToggleLike(ctx context.Context, postID int64) (*models.Post, error)
	AddComment(ctx context.Context, postID int64, text string) (*models.Comment, error)
	IncrementShare(ctx context.Context, postID int64) (*models.Post, error)
	ToggleCommentsExpanded(postID int64) (bool, error)
	SetDraft(postID int64, text string) error
	Feed() []models.PostView
	Post(postID int64) (*models.PostView, error)
}

type ImageUpload struct {
	FileName string
	File     io.Reader
	Size     int64
}

type CreatePostRequest struct {
	Content string
	Image   *ImageUpload
}

type postUIState struct {
	expanded bool
	draft    string
}

type feedService struct {
	mu      sync.Mutex
	posts   repository.PostRepository
	session SessionService
	images  storage.Storage
	ui      map[int64]*postUIState
	now     func() time.Time
	log     *zap.Logger
}

func NewFeedService(posts repository.PostRepository, session SessionService, images storage.Storage, log *zap.Logger) FeedService {
	return newFeedService(posts, session, images, time.Now, log)
}

func newFeedService(posts repository.PostRepository, session SessionService, images storage.Storage, now func() time.Time, log *zap.Logger) *feedService {
	return &feedService{
		posts:   posts,
		session: session,
		images:  images,
		ui:      make(map[int64]*postUIState),
		now:     now,
		log:     log,
	}
}

func (f *feedService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	viewer := f.session.Current()
	if viewer == nil {
		return nil, newError(CodeUnauthenticated, reasonSignInToPost)
	}

	if isBlank(req.Content) {
		return nil, newError(CodeEmptyText, reasonEmptyPost)
	}

	post := &models.Post{
		Author: models.Author{
			Name:     viewer.Name,
			Username: viewer.Username,
			Avatar:   viewer.Avatar,
		},
		Content:   req.Content,
		CreatedAt: f.now(),
	}

	if req.Image != nil {
		if f.images == nil {
			return nil, ErrImagesDisabled
		}

		_, imageURL, err := f.images.UploadImage(ctx, "posts", req.Image.FileName, req.Image.File, req.Image.Size)
		if err != nil {
			return nil, wrapError(CodeStorage, "Не удалось загрузить изображение", err)
		}
		post.Image = imageURL
	}

	f.posts.Prepend(post)

	f.log.Info("пост опубликован",
		zap.Int64("post_id", post.ID),
		zap.String("user_id", viewer.ID))

	return post, nil
}

func (f *feedService) ToggleLike(ctx context.Context, postID int64) (*models.Post, error) {
	return f.updateCounters(postID, reasonSignInToLike, func(post *models.Post) {
		if post.IsLiked {
			post.IsLiked = false
			if post.Likes > 0 {
				post.Likes--
			}
			return
		}

		post.IsLiked = true
		post.Likes++
	})
}

func (f *feedService) IncrementShare(ctx context.Context, postID int64) (*models.Post, error) {
	return f.updateCounters(postID, reasonSignInToShare, func(post *models.Post) {
		post.Shares++
	})
}

func (f *feedService) AddComment(ctx context.Context, postID int64, text string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	viewer := f.session.Current()
	if viewer == nil {
		return nil, newError(CodeUnauthenticated, reasonSignInToComment)
	}

	if isBlank(text) {
		return nil, newError(CodeEmptyText, reasonEmptyComment)
	}

	comment := &models.Comment{
		PostID:    postID,
		Author:    viewer.Name,
		Avatar:    viewer.Avatar,
		Text:      text,
		CreatedAt: f.now(),
	}

	if !f.posts.AddComment(comment) {
		return nil, postNotFound(postID)
	}

	if state, ok := f.ui[postID]; ok {
		state.draft = ""
	}

	return comment, nil
}

func (f *feedService) ToggleCommentsExpanded(postID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.posts.GetByID(postID); !ok {
		return false, postNotFound(postID)
	}

	state := f.state(postID)
	state.expanded = !state.expanded

	return state.expanded, nil
}

func (f *feedService) SetDraft(postID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.posts.GetByID(postID); !ok {
		return postNotFound(postID)
	}

	f.state(postID).draft = text
	return nil
}

func (f *feedService) Feed() []models.PostView {
	f.mu.Lock()
	defer f.mu.Unlock()

	posts := f.posts.List()
	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, f.view(post))
	}

	return views
}

func (f *feedService) Post(postID int64) (*models.PostView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts.GetByID(postID)
	if !ok {
		return nil, postNotFound(postID)
	}

	view := f.view(*post)
	return &view, nil
}

// updateCounters applies a viewer action to one post under the store lock.
func (f *feedService) updateCounters(postID int64, signInReason string, apply func(post *models.Post)) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.session.IsAuthenticated() {
		return nil, newError(CodeUnauthenticated, signInReason)
	}

	post, ok := f.posts.GetByID(postID)
	if !ok {
		return nil, postNotFound(postID)
	}

	apply(post)

	if !f.posts.Update(post) {
		return nil, postNotFound(postID)
	}

	return post, nil
}

func (f *feedService) state(postID int64) *postUIState {
	state, ok := f.ui[postID]
	if !ok {
		state = &postUIState{}
		f.ui[postID] = state
	}
	return state
}

func (f *feedService) view(post models.Post) models.PostView {
	view := models.PostView{
		Post:         post,
		CreatedLabel: createdLabel(post.CreatedAt, f.now()),
		CommentList:  f.posts.Comments(post.ID),
	}

	if view.CommentList == nil {
		view.CommentList = []models.Comment{}
	}

	if state, ok := f.ui[post.ID]; ok {
		view.Expanded = state.expanded
		view.Draft = state.draft
	}

	return view
}

// SeedFeed loads demo posts into an empty repository, keeping the listed
// order. Comment counters come from the seeded comments.
func SeedFeed(posts repository.PostRepository, feed []seed.Post, now time.Time) {
	for i := len(feed) - 1; i >= 0; i-- {
		item := feed[i]

		post := &models.Post{
			Author:    item.Author,
			Content:   item.Content,
			Image:     item.Image,
			Likes:     item.Likes,
			Shares:    item.Shares,
			IsLiked:   item.IsLiked,
			CreatedAt: now.Add(-item.Age),
		}
		posts.Prepend(post)

		for _, c := range item.Comments {
			posts.AddComment(&models.Comment{
				PostID:    post.ID,
				Author:    c.Author,
				Avatar:    c.Avatar,
				Text:      c.Text,
				CreatedAt: post.CreatedAt,
			})
		}
	}
}

// relTimeMagnitudes use abbreviated Russian units.
var relTimeMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "Только что", DivBy: time.Second},
	{D: time.Hour, Format: "%d мин. %s", DivBy: time.Minute},
	{D: humanize.Day, Format: "%d ч %s", DivBy: time.Hour},
	{D: humanize.Week, Format: "%d дн. %s", DivBy: humanize.Day},
	{D: humanize.Month, Format: "%d нед. %s", DivBy: humanize.Week},
	{D: humanize.Year, Format: "%d мес. %s", DivBy: humanize.Month},
	{D: math.MaxInt64, Format: "%d г. %s", DivBy: humanize.Year},
}

func createdLabel(createdAt, now time.Time) string {
	return humanize.CustomRelTime(createdAt, now, "назад", "вперёд", relTimeMagnitudes)
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
