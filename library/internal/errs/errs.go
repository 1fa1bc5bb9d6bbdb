package errs

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
	ErrOutOfStock      = errors.New("out of stock")
	ErrTransient       = errors.New("transient store error")
)

// Error is a kinded failure. Status carries the record status when the
// failure is about it (duplicate request, forbidden transition).
type Error struct {
	Kind   error
	Msg    string
	Status string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

func New(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func WithStatus(kind error, status, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Status: status}
}

func Validation(format string, args ...interface{}) error {
	return New(ErrValidation, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return New(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) error {
	return New(ErrForbidden, format, args...)
}

func InvalidState(status string) error {
	return WithStatus(ErrInvalidState, status, "record is %s", status)
}

type kindInfo struct {
	err  error
	name string
	code int
}

var kinds = []kindInfo{
	{ErrValidation, "ValidationError", http.StatusBadRequest},
	{ErrUnauthenticated, "Unauthenticated", http.StatusUnauthorized},
	{ErrForbidden, "ForbiddenError", http.StatusForbidden},
	{ErrNotFound, "NotFoundError", http.StatusNotFound},
	{ErrConflict, "ConflictError", http.StatusConflict},
	{ErrInvalidState, "InvalidStateError", http.StatusConflict},
	{ErrOutOfStock, "OutOfStockError", http.StatusConflict},
	{ErrTransient, "TransientStoreError", http.StatusServiceUnavailable},
}

type Response struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Status  string `json:"status,omitempty"`
}

// ToResponse maps err onto an HTTP code and body. Unknown errors are 500.
func ToResponse(err error) (int, Response) {
	resp := Response{Message: err.Error(), Kind: "InternalError"}
	var e *Error
	if errors.As(err, &e) {
		resp.Message = e.Error()
		resp.Status = e.Status
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			resp.Kind = k.name
			return k.code, resp
		}
	}
	resp.Message = http.StatusText(http.StatusInternalServerError)
	return http.StatusInternalServerError, resp
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}
