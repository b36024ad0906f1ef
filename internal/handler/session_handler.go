package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mirfeed/internal/models"
	"mirfeed/internal/service"
)

type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user"`
}

type LoginRequest struct {
	Provider string `json:"provider" validate:"required"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=100"`
	Username *string `json:"username" validate:"omitnil,min=2,max=50"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Avatar   *string `json:"avatar" validate:"omitnil,uri"`
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *Handlers) sessionResponse() SessionResponse {
	user := h.SessionService.Current()
	return SessionResponse{
		Authenticated: user != nil,
		User:          user,
	}
}

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.sessionResponse(), http.StatusOK)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Не указан способ входа", http.StatusBadRequest)
		return
	}

	provider, err := service.ParseProvider(req.Provider)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if _, err := h.SessionService.Login(r.Context(), provider); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, h.sessionResponse(), http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.SessionService.Logout(r.Context())

	writeJSON(w, SessionResponse{Authenticated: false}, http.StatusOK)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	// the profile editor always stores the username with a leading "@"
	if req.Username != nil {
		username := "@" + strings.TrimPrefix(strings.TrimSpace(*req.Username), "@")
		req.Username = &username
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные профиля", http.StatusBadRequest)
		return
	}

	user, updated := h.SessionService.UpdateProfile(r.Context(), models.ProfileUpdate{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Avatar:   req.Avatar,
	})
	if !updated {
		writeJSON(w, ErrorResponse{Error: "Войдите, чтобы изменить профиль", SignIn: true}, http.StatusUnauthorized)
		return
	}

	writeJSON(w, SessionResponse{Authenticated: true, User: user}, http.StatusOK)
}

func (h *Handlers) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	// decline before the body is read
	if !h.SessionService.IsAuthenticated() {
		writeJSON(w, ErrorResponse{Error: "Войдите, чтобы изменить фото", SignIn: true}, http.StatusUnauthorized)
		return
	}

	upload, ok := h.readImage(w, r, "avatar", true)
	if !ok {
		return
	}
	defer upload.close()

	user, err := h.SessionService.UploadAvatar(r.Context(), upload.FileName, upload.File, upload.Size)
	if err != nil {
		h.Log.Warn("не удалось обновить фото", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, SessionResponse{Authenticated: true, User: user}, http.StatusOK)
}
