package models

import (
	"time"
)

// Provider is a sign-in provider the mock login understands.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderYandex Provider = "yandex"
)

// User is the authenticated viewer. A missing session is a nil *User.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// ProfileUpdate carries the fields to merge into the session; nil fields stay as they are.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

type Author struct {
	Name     string `json:"name" yaml:"name"`
	Username string `json:"username" yaml:"username"`
	Avatar   string `json:"avatar" yaml:"avatar"`
}

type Post struct {
	ID        int64     `json:"id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Shares    int       `json:"shares"`
	IsLiked   bool      `json:"isLiked"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	Author    string    `json:"author"`
	Avatar    string    `json:"avatar"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostView is a read-only snapshot of a post with its comments and UI state.
type PostView struct {
	Post
	CreatedLabel string    `json:"createdLabel"`
	CommentList  []Comment `json:"commentList"`
	Expanded     bool      `json:"expanded"`
	Draft        string    `json:"draft"`
}
