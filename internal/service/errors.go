package service

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	CodeUnauthenticated ErrorCode = iota + 1000
	CodeEmptyText
	CodeNotFound
	CodeUnknownProvider
	CodeStorage
	CodeImagesDisabled
)

// Error is a non-fatal outcome of a store operation. Reason is safe to show
// to the viewer.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code, so errors.Is(err, ErrUnauthenticated)
// holds for every sign-in prompt regardless of its reason text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrUnauthenticated = &Error{Code: CodeUnauthenticated, Reason: "Требуется вход"}
	ErrEmptyText       = &Error{Code: CodeEmptyText, Reason: "Текст не может быть пустым"}
	ErrPostNotFound    = &Error{Code: CodeNotFound, Reason: "Пост не найден"}
	ErrUnknownProvider = &Error{Code: CodeUnknownProvider, Reason: "Неизвестный способ входа"}
	ErrImagesDisabled  = &Error{Code: CodeImagesDisabled, Reason: "Хранилище изображений не настроено"}
)

const (
	reasonSignInToPost    = "Войдите, чтобы опубликовать пост"
	reasonSignInToLike    = "Войдите, чтобы оценить пост"
	reasonSignInToComment = "Войдите, чтобы оставить комментарий"
	reasonSignInToShare   = "Войдите, чтобы поделиться постом"
	reasonSignInToAvatar  = "Войдите, чтобы изменить фото"

	reasonEmptyPost    = "Текст поста не может быть пустым"
	reasonEmptyComment = "Комментарий не может быть пустым"
)

func newError(code ErrorCode, reason string) error {
	return &Error{Code: code, Reason: reason}
}

func wrapError(code ErrorCode, reason string, err error) error {
	return &Error{Code: code, Reason: reason, Err: err}
}

func postNotFound(postID int64) error {
	return newError(CodeNotFound, fmt.Sprintf("Пост %d не найден", postID))
}

// IsDeclined reports a precondition failure: the viewer is signed out or the
// submitted text is empty. Nothing was changed.
func IsDeclined(err error) bool {
	code := GetErrorCode(err)
	return code == CodeUnauthenticated || code == CodeEmptyText
}

func GetErrorCode(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// Reason returns the viewer-facing text of err.
func Reason(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Reason
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
