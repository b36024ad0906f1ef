package repository

import (
	"slices"
	"sync"

	"mirfeed/internal/models"
)

type postRepository struct {
	mu            sync.RWMutex
	posts         []*models.Post
	comments      map[int64][]models.Comment
	lastPostID    int64
	lastCommentID int64
}

func NewPostRepository() PostRepository {
	return &postRepository{comments: make(map[int64][]models.Comment)}
}

// Prepend assigns the next post id and puts the post at the front of the feed.
// The comment counter starts at zero because a new post owns no comments.
func (r *postRepository) Prepend(post *models.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastPostID++
	post.ID = r.lastPostID
	post.Comments = 0

	stored := *post
	r.posts = slices.Insert(r.posts, 0, &stored)
}

func (r *postRepository) GetByID(postID int64) (*models.Post, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post := r.find(postID)
	if post == nil {
		return nil, false
	}

	copied := *post
	return &copied, true
}

func (r *postRepository) List() []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, 0, len(r.posts))
	for _, post := range r.posts {
		posts = append(posts, *post)
	}

	return posts
}

// Update stores the viewer counters of an existing post. Content, author and
// the comment counter are not touched.
func (r *postRepository) Update(post *models.Post) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.find(post.ID)
	if stored == nil {
		return false
	}

	stored.Likes = post.Likes
	stored.IsLiked = post.IsLiked
	stored.Shares = post.Shares

	post.Comments = stored.Comments
	return true
}

// AddComment appends the comment and bumps the owning post's counter together.
func (r *postRepository) AddComment(comment *models.Comment) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	post := r.find(comment.PostID)
	if post == nil {
		return false
	}

	r.lastCommentID++
	comment.ID = r.lastCommentID

	r.comments[post.ID] = append(r.comments[post.ID], *comment)
	post.Comments = len(r.comments[post.ID])

	return true
}

func (r *postRepository) Comments(postID int64) []models.Comment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.comments[postID])
}

func (r *postRepository) find(postID int64) *models.Post {
	for _, post := range r.posts {
		if post.ID == postID {
			return post
		}
	}
	return nil
}
