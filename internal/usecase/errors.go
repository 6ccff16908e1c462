package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "shopapi/internal/repository"

	"github.com/google/uuid"
)

// 呼び出し側が errors.Is で判定するための分類
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrEmptyCart         = errors.New("empty cart")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInternal          = errors.New("internal error")
)

var kindStatus = map[error]int{
	ErrNotFound:          http.StatusNotFound,
	ErrInvalidArgument:   http.StatusBadRequest,
	ErrEmptyCart:         http.StatusBadRequest,
	ErrInvalidTransition: http.StatusConflict,
	ErrConflict:          http.StatusConflict,
	ErrUnauthorized:      http.StatusUnauthorized,
	ErrForbidden:         http.StatusForbidden,
	ErrInternal:          http.StatusInternalServerError,
}

type HTTPError struct {
	Status  int
	Message string
	Kind    error
	// ログ用。レスポンスには出さない
	Cause error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func newKindError(kind error, message string) *HTTPError {
	return &HTTPError{Status: kindStatus[kind], Message: message, Kind: kind}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func notFound(message string) error        { return newKindError(ErrNotFound, message) }
func invalidArgument(message string) error { return newKindError(ErrInvalidArgument, message) }
func conflict(message string) error        { return newKindError(ErrConflict, message) }

// 想定外のエラー。中身はレスポンスに出さない
func internalError(cause error) error {
	he := newKindError(ErrInternal, "internal error")
	he.Cause = cause
	return he
}

// repositoryのエラーを分類する（ErrNotFound は msg の NotFound に）
func fromRepo(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	if errors.Is(err, repo.ErrNotFound) {
		return notFound(notFoundMessage)
	}
	return internalError(err)
}

// 固定メッセージ
const (
	msgUserNotFound     = "user not found"
	msgCartNotFound     = "cart not found"
	msgCartItemNotFound = "cart item not found"
	msgProductNotFound  = "product not found"
	msgOrderNotFound    = "order not found"
	msgCategoryNotFound = "category not found"
	msgReviewNotFound   = "review not found"
	msgBadCredentials   = "invalid email or password"
)

// ユーザー・注文のIDは uuid 列。形式が違うものはDBに渡さず存在しない扱いにする
func isUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
