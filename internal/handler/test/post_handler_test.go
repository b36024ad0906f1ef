package test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handlers "mirfeed/internal/handler"
	"mirfeed/internal/models"
	"mirfeed/internal/service"
	"mirfeed/internal/storage"
)

var createdAt = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func testPost(id int64) *models.Post {
	return &models.Post{
		ID: id,
		Author: models.Author{
			Name:     "Анна Иванова",
			Username: "@anna_iv",
			Avatar:   "/placeholder.svg",
		},
		Content:   "Привет",
		Likes:     42,
		Shares:    3,
		CreatedAt: createdAt,
	}
}

func TestGetPostsHandler(t *testing.T) {
	feed := new(MockFeedService)
	feed.On("Feed").Return([]models.PostView{
		{Post: *testPost(2), CreatedLabel: "Только что"},
		{Post: *testPost(1), CreatedLabel: "2 ч назад"},
	})
	handler := createTestHandler(new(MockSessionService), feed)

	rr := doJSON(t, handler, http.MethodGet, "/api/posts", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var response handlers.PostsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	require.Len(t, response.Posts, 2)
	assert.Equal(t, int64(2), response.Posts[0].ID)
	assert.Equal(t, "2 ч назад", response.Posts[1].CreatedLabel)
}

func TestGetPostHandler(t *testing.T) {
	t.Run("Пост найден", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("Post", int64(7)).Return(&models.PostView{Post: *testPost(7), Expanded: true}, nil)
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodGet, "/api/posts/7", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var view models.PostView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		assert.Equal(t, int64(7), view.ID)
		assert.True(t, view.Expanded)
	})

	t.Run("Пост не найден", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("Post", int64(999)).Return(nil, &service.Error{Code: service.CodeNotFound, Reason: "Пост 999 не найден"})
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodGet, "/api/posts/999", nil)

		response := assertJSONError(t, rr, http.StatusNotFound, "Пост 999 не найден")
		assert.False(t, response.SignIn)
	})

	t.Run("Нулевой идентификатор", func(t *testing.T) {
		feed := new(MockFeedService)
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodGet, "/api/posts/0", nil)

		assertJSONError(t, rr, http.StatusBadRequest, "Неверный идентификатор поста")
		feed.AssertNotCalled(t, "Post", mock.Anything)
	})

	t.Run("Нечисловой идентификатор", func(t *testing.T) {
		handler := createTestHandler(new(MockSessionService), new(MockFeedService))

		rr := doJSON(t, handler, http.MethodGet, "/api/posts/abc", nil)

		assertJSONError(t, rr, http.StatusNotFound, "Не найдено")
	})
}

func TestCreatePostHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		mockSetup      func(*MockFeedService)
		expectedStatus int
		expectedError  string
		signIn         bool
	}{
		{
			name: "Успешная публикация",
			body: map[string]string{"content": "Привет"},
			mockSetup: func(feed *MockFeedService) {
				feed.On("CreatePost", mock.Anything, "Привет", false).Return(testPost(4), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Без входа",
			body: map[string]string{"content": "Привет"},
			mockSetup: func(feed *MockFeedService) {
				feed.On("CreatePost", mock.Anything, "Привет", false).
					Return(nil, &service.Error{Code: service.CodeUnauthenticated, Reason: "Войдите, чтобы опубликовать пост"})
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Войдите, чтобы опубликовать пост",
			signIn:         true,
		},
		{
			name: "Пустой текст",
			body: map[string]string{"content": "   "},
			mockSetup: func(feed *MockFeedService) {
				feed.On("CreatePost", mock.Anything, "   ", false).
					Return(nil, &service.Error{Code: service.CodeEmptyText, Reason: "Текст поста не может быть пустым"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Текст поста не может быть пустым",
		},
		{
			name:           "Неверный JSON",
			body:           []int{1, 2},
			mockSetup:      func(feed *MockFeedService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Неверный формат запроса",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := new(MockFeedService)
			tt.mockSetup(feed)
			handler := createTestHandler(new(MockSessionService), feed)

			rr := doJSON(t, handler, http.MethodPost, "/api/posts", tt.body)

			if tt.expectedError != "" {
				response := assertJSONError(t, rr, tt.expectedStatus, tt.expectedError)
				assert.Equal(t, tt.signIn, response.SignIn)
			} else {
				assert.Equal(t, tt.expectedStatus, rr.Code)
				var post models.Post
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
				assert.Equal(t, int64(4), post.ID)
			}
			feed.AssertExpectations(t)
		})
	}
}

func TestCreatePostHandler_Multipart(t *testing.T) {
	newRequest := func(t *testing.T, withImage bool) *http.Request {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		require.NoError(t, writer.WriteField("content", "С картинкой"))
		if withImage {
			part, err := writer.CreateFormFile("image", "cat.png")
			require.NoError(t, err)
			_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
			require.NoError(t, err)
		}
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/posts", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req
	}

	t.Run("С изображением", func(t *testing.T) {
		feed := new(MockFeedService)
		post := testPost(5)
		post.Image = "http://localhost:9000/images/posts/cat.png"
		feed.On("CreatePost", mock.Anything, "С картинкой", true).Return(post, nil)
		handler := createTestHandler(new(MockSessionService), feed)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(t, true))

		assert.Equal(t, http.StatusCreated, rr.Code)
		feed.AssertExpectations(t)
	})

	t.Run("Без изображения", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("CreatePost", mock.Anything, "С картинкой", false).Return(testPost(6), nil)
		handler := createTestHandler(new(MockSessionService), feed)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(t, false))

		assert.Equal(t, http.StatusCreated, rr.Code)
		feed.AssertExpectations(t)
	})

	t.Run("Неподдерживаемый тип", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("CreatePost", mock.Anything, "С картинкой", true).
			Return(nil, &service.Error{Code: service.CodeStorage, Reason: "Не удалось загрузить изображение", Err: storage.ErrUnsupportedType})
		handler := createTestHandler(new(MockSessionService), feed)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(t, true))

		assertJSONError(t, rr, http.StatusBadRequest, "Неподдерживаемый тип файла")
	})
}

func TestToggleLikeHandler(t *testing.T) {
	t.Run("Лайк поставлен", func(t *testing.T) {
		feed := new(MockFeedService)
		liked := testPost(1)
		liked.IsLiked = true
		liked.Likes = 43
		feed.On("ToggleLike", mock.Anything, int64(1)).Return(liked, nil)
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodPost, "/api/posts/1/like", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var post models.Post
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
		assert.True(t, post.IsLiked)
		assert.Equal(t, 43, post.Likes)
	})

	t.Run("Без входа", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("ToggleLike", mock.Anything, int64(1)).
			Return(nil, &service.Error{Code: service.CodeUnauthenticated, Reason: "Войдите, чтобы оценить пост"})
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodPost, "/api/posts/1/like", nil)

		response := assertJSONError(t, rr, http.StatusUnauthorized, "Войдите, чтобы оценить пост")
		assert.True(t, response.SignIn)
	})

	t.Run("Пост не найден", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("ToggleLike", mock.Anything, int64(404)).Return(nil, service.ErrPostNotFound)
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodPost, "/api/posts/404/like", nil)

		assertJSONError(t, rr, http.StatusNotFound, "Пост не найден")
	})

	t.Run("Неверный метод", func(t *testing.T) {
		handler := createTestHandler(new(MockSessionService), new(MockFeedService))

		rr := doJSON(t, handler, http.MethodGet, "/api/posts/1/like", nil)

		assertJSONError(t, rr, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

func TestShareHandler(t *testing.T) {
	feed := new(MockFeedService)
	shared := testPost(1)
	shared.Shares = 4
	feed.On("IncrementShare", mock.Anything, int64(1)).Return(shared, nil)
	handler := createTestHandler(new(MockSessionService), feed)

	rr := doJSON(t, handler, http.MethodPost, "/api/posts/1/share", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
	assert.Equal(t, 4, post.Shares)
	feed.AssertExpectations(t)
}

func TestAddCommentHandler(t *testing.T) {
	t.Run("Комментарий добавлен", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("AddComment", mock.Anything, int64(3), "Отлично!").Return(&models.Comment{
			ID:        10,
			PostID:    3,
			Author:    "Пользователь Google",
			Avatar:    "/placeholder.svg",
			Text:      "Отлично!",
			CreatedAt: createdAt,
		}, nil)
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodPost, "/api/posts/3/comments", map[string]string{"text": "Отлично!"})

		assert.Equal(t, http.StatusCreated, rr.Code)
		var comment models.Comment
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &comment))
		assert.Equal(t, int64(10), comment.ID)
		assert.Equal(t, "Пользователь Google", comment.Author)
	})

	t.Run("Пустой комментарий", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("AddComment", mock.Anything, int64(3), "").
			Return(nil, &service.Error{Code: service.CodeEmptyText, Reason: "Комментарий не может быть пустым"})
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodPost, "/api/posts/3/comments", map[string]string{"text": ""})

		response := assertJSONError(t, rr, http.StatusBadRequest, "Комментарий не может быть пустым")
		assert.False(t, response.SignIn)
	})

	t.Run("Без входа", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("AddComment", mock.Anything, int64(3), "Отлично!").
			Return(nil, &service.Error{Code: service.CodeUnauthenticated, Reason: "Войдите, чтобы оставить комментарий"})
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodPost, "/api/posts/3/comments", map[string]string{"text": "Отлично!"})

		response := assertJSONError(t, rr, http.StatusUnauthorized, "Войдите, чтобы оставить комментарий")
		assert.True(t, response.SignIn)
	})
}

func TestToggleCommentsHandler(t *testing.T) {
	feed := new(MockFeedService)
	feed.On("ToggleCommentsExpanded", int64(2)).Return(true, nil).Once()
	feed.On("ToggleCommentsExpanded", int64(2)).Return(false, nil).Once()
	handler := createTestHandler(new(MockSessionService), feed)

	for _, expected := range []bool{true, false} {
		rr := doJSON(t, handler, http.MethodPost, "/api/posts/2/comments/toggle", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var response handlers.ExpandedResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, int64(2), response.PostID)
		assert.Equal(t, expected, response.Expanded)
	}
	feed.AssertExpectations(t)
}

func TestSetDraftHandler(t *testing.T) {
	t.Run("Черновик сохранен", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("SetDraft", int64(2), "черно").Return(nil)
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodPut, "/api/posts/2/draft", map[string]string{"text": "черно"})

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		feed.AssertExpectations(t)
	})

	t.Run("Пост не найден", func(t *testing.T) {
		feed := new(MockFeedService)
		feed.On("SetDraft", int64(50), "x").Return(service.ErrPostNotFound)
		handler := createTestHandler(new(MockSessionService), feed)

		rr := doJSON(t, handler, http.MethodPut, "/api/posts/50/draft", map[string]string{"text": "x"})

		assertJSONError(t, rr, http.StatusNotFound, "Пост не найден")
	})
}
