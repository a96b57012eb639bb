package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/shopbot/pkg/errors"
)

// HTTPError is serialized by errorHandlingMiddleware as {"error":{code,message}}.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromAppError maps domain error codes onto statuses. Errors without a known
// code become a 500 carrying fallbackCode.
func fromAppError(err error, fallbackCode string) *HTTPError {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidInput:
		return NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err)
	case apperrors.CodeInvalidToken:
		return NewHTTPError(http.StatusForbidden, apperrors.CodeInvalidToken, errMessage(err), err)
	case apperrors.CodeStoreUnavailable:
		return NewHTTPError(http.StatusServiceUnavailable, apperrors.CodeStoreUnavailable, "knowledge base unavailable", err)
	case apperrors.CodeConfigMissing:
		return NewHTTPError(http.StatusServiceUnavailable, apperrors.CodeConfigMissing, errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, fallbackCode, errMessage(err), err)
	}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
