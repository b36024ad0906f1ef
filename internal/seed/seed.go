package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mirfeed/internal/models"
)

//go:embed posts.yaml
var defaultFeed []byte

type Comment struct {
	Author string `yaml:"author"`
	Avatar string `yaml:"avatar"`
	Text   string `yaml:"text"`
}

type Post struct {
	Author   models.Author `yaml:"author"`
	Content  string        `yaml:"content"`
	Image    string        `yaml:"image"`
	Likes    int           `yaml:"likes"`
	Shares   int           `yaml:"shares"`
	IsLiked  bool          `yaml:"is_liked"`
	Age      time.Duration `yaml:"age"`
	Comments []Comment     `yaml:"comments"`
}

type document struct {
	Posts []Post `yaml:"posts"`
}

// Default returns the demo feed shipped with the binary.
func Default() ([]Post, error) {
	return Parse(defaultFeed)
}

// Parse reads a feed document. Posts are listed newest first.
func Parse(data []byte) ([]Post, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ошибка разбора ленты: %w", err)
	}

	for i, post := range doc.Posts {
		if err := post.validate(); err != nil {
			return nil, fmt.Errorf("пост #%d: %w", i+1, err)
		}
	}

	return doc.Posts, nil
}

func (p Post) validate() error {
	if strings.TrimSpace(p.Content) == "" {
		return errors.New("пустой текст")
	}
	if p.Author.Name == "" {
		return errors.New("не указан автор")
	}
	if p.Likes < 0 || p.Shares < 0 {
		return errors.New("отрицательный счётчик")
	}
	if p.IsLiked && p.Likes == 0 {
		return errors.New("отмеченный пост без лайков")
	}
	if p.Age < 0 {
		return errors.New("отрицательный возраст")
	}
	for _, c := range p.Comments {
		if strings.TrimSpace(c.Text) == "" {
			return errors.New("пустой комментарий")
		}
	}
	return nil
}
