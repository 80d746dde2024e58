package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Error codes shared by every layer that talks to the HTTP boundary.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_ERROR"
)

const internalMessage = "internal server error"

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Envelope is the JSON body written for every failed request.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Envelope renders the error for the caller. Internal errors never expose their cause.
func (e *DomainError) Envelope() Envelope {
	return Envelope{Status: e.HTTPStatus, Message: e.Message}
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewBadRequest(message string) error {
	return NewDomainError(CodeBadRequest, message, http.StatusBadRequest)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewNotFound(message string) error {
	return NewDomainError(CodeNotFound, message, http.StatusNotFound)
}

func NewConflict(message string) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict)
}

func NewTooManyRequests(message string) error {
	return NewDomainError(CodeTooManyRequests, message, http.StatusTooManyRequests)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    internalMessage,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Is reports whether err carries the given error code.
func Is(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    internalMessage,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func fromFiberError(err *fiber.Error) *DomainError {
	switch err.Code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return &DomainError{Code: CodeBadRequest, Message: err.Message, HTTPStatus: err.Code}
	case http.StatusUnauthorized:
		return &DomainError{Code: CodeUnauthorized, Message: err.Message, HTTPStatus: err.Code}
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return &DomainError{Code: CodeNotFound, Message: err.Message, HTTPStatus: err.Code}
	case http.StatusTooManyRequests:
		return &DomainError{Code: CodeTooManyRequests, Message: err.Message, HTTPStatus: err.Code}
	}
	if err.Code >= http.StatusInternalServerError {
		return &DomainError{Code: CodeInternal, Message: internalMessage, HTTPStatus: http.StatusInternalServerError, Err: err}
	}
	return &DomainError{Code: CodeBadRequest, Message: err.Message, HTTPStatus: err.Code}
}

// MapError converts err into a DomainError, keeping nil as nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
