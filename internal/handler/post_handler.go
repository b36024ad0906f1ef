package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"mirfeed/internal/models"
	"mirfeed/internal/service"
)

type PostsResponse struct {
	Posts []models.PostView `json:"posts"`
}

type CreatePostRequest struct {
	Content string `json:"content"`
}

type TextRequest struct {
	Text string `json:"text"`
}

type ExpandedResponse struct {
	PostID   int64 `json:"postId"`
	Expanded bool  `json:"expanded"`
}

type imageUpload struct {
	service.ImageUpload
	file multipart.File
}

func (u *imageUpload) close() {
	if u != nil {
		u.file.Close()
	}
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, PostsResponse{Posts: h.FeedService.Feed()}, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFromPath(w, r)
	if !ok {
		return
	}

	post, err := h.FeedService.Post(postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

// CreatePost accepts either JSON or a multipart form with an optional "image".
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePostRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		upload, ok := h.readImage(w, r, "image", false)
		if !ok {
			return
		}
		defer upload.close()

		req.Content = r.FormValue("content")
		if upload != nil {
			req.Image = &upload.ImageUpload
		}
	} else {
		var body CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
			return
		}
		req.Content = body.Content
	}

	post, err := h.FeedService.CreatePost(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, post, http.StatusCreated)
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFromPath(w, r)
	if !ok {
		return
	}

	post, err := h.FeedService.ToggleLike(r.Context(), postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

func (h *Handlers) Share(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFromPath(w, r)
	if !ok {
		return
	}

	post, err := h.FeedService.IncrementShare(r.Context(), postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFromPath(w, r)
	if !ok {
		return
	}

	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	comment, err := h.FeedService.AddComment(r.Context(), postID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, comment, http.StatusCreated)
}

func (h *Handlers) ToggleComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFromPath(w, r)
	if !ok {
		return
	}

	expanded, err := h.FeedService.ToggleCommentsExpanded(postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, ExpandedResponse{PostID: postID, Expanded: expanded}, http.StatusOK)
}

func (h *Handlers) SetDraft(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFromPath(w, r)
	if !ok {
		return
	}

	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.FeedService.SetDraft(postID, req.Text); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func postIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	postID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || postID <= 0 {
		WriteError(w, "Неверный идентификатор поста", http.StatusBadRequest)
		return 0, false
	}
	return postID, true
}

// readImage parses a multipart upload limited by MaxUploadSize. A missing
// optional file yields (nil, true).
func (h *Handlers) readImage(w http.ResponseWriter, r *http.Request, field string, required bool) (*imageUpload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+1<<20)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, fmt.Sprintf("Файл слишком большой (макс. %d MB)",
				h.Cfg.MaxUploadSize/(1024*1024)), http.StatusBadRequest)
		} else {
			WriteError(w, "Ошибка при обработке файла", http.StatusBadRequest)
		}
		return nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !required {
			return nil, true
		}
		WriteError(w, "Не удалось получить файл", http.StatusBadRequest)
		return nil, false
	}

	if header.Size > h.Cfg.MaxUploadSize {
		file.Close()
		WriteError(w, fmt.Sprintf("Файл слишком большой (макс. %d MB)",
			h.Cfg.MaxUploadSize/(1024*1024)), http.StatusBadRequest)
		return nil, false
	}

	return &imageUpload{
		ImageUpload: service.ImageUpload{
			FileName: header.Filename,
			File:     file,
			Size:     header.Size,
		},
		file: file,
	}, true
}
