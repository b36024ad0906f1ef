package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func NewRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/session", h.GetSession).Methods(http.MethodGet)
	router.HandleFunc("/api/session/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/session/logout", h.Logout).Methods(http.MethodPost)

	router.HandleFunc("/api/profile", h.UpdateProfile).Methods(http.MethodPatch)
	router.HandleFunc("/api/profile/avatar", h.UploadAvatar).Methods(http.MethodPost)

	router.HandleFunc("/api/posts", h.GetPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", h.CreatePost).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id:[0-9]+}", h.GetPost).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id:[0-9]+}/like", h.ToggleLike).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id:[0-9]+}/share", h.Share).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id:[0-9]+}/comments", h.AddComment).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id:[0-9]+}/comments/toggle", h.ToggleComments).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id:[0-9]+}/draft", h.SetDraft).Methods(http.MethodPut)

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Не найдено", http.StatusNotFound)
	})

	return router
}
