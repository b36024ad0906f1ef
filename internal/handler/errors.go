package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mirfeed/internal/service"
	"mirfeed/internal/storage"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error  string `json:"error"`
	SignIn bool   `json:"signIn,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: message}, statusCode)
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeServiceError maps a store outcome onto an HTTP status. Sign-in prompts
// are flagged so the client can open the login page.
func writeServiceError(w http.ResponseWriter, err error) {
	response := ErrorResponse{Error: service.Reason(err)}
	status := http.StatusInternalServerError

	switch service.GetErrorCode(err) {
	case service.CodeUnauthenticated:
		status = http.StatusUnauthorized
		response.SignIn = true
	case service.CodeEmptyText, service.CodeUnknownProvider:
		status = http.StatusBadRequest
	case service.CodeNotFound:
		status = http.StatusNotFound
	case service.CodeImagesDisabled:
		status = http.StatusServiceUnavailable
	case service.CodeStorage:
		if errors.Is(err, storage.ErrUnsupportedType) {
			status = http.StatusBadRequest
			response.Error = "Неподдерживаемый тип файла. Разрешены: JPEG, PNG, GIF, WebP"
		}
	}

	writeJSON(w, response, status)
}
