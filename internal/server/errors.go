package server

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"botlint/internal/errors"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code           errors.ErrorCode   `json:"code"`
	Message        string             `json:"message"`
	SuggestedFixes []errors.FixAction `json:"suggestedFixes,omitempty"`
}

// ErrorResponse wraps ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// StatusFor maps error codes to HTTP status codes.
func StatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.DocumentUnreadable, errors.DocumentInvalid, errors.InvalidRequest:
		return http.StatusBadRequest // 400
	case errors.Unauthorized:
		return http.StatusUnauthorized // 401
	case errors.RunNotFound, errors.NotFound:
		return http.StatusNotFound // 404
	case errors.OracleFailed:
		return http.StatusBadGateway // 502
	case errors.OracleUnavailable, errors.HistoryUnavailable:
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

// errorHandler renders errors as ErrorResponse and logs server faults.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status int
		body   ErrorBody
		he     *echo.HTTPError
		be     *errors.Error
	)
	switch {
	case stderrors.As(err, &be):
		status = StatusFor(be.Code)
		body = ErrorBody{Code: be.Code, Message: be.Message, SuggestedFixes: be.SuggestedFixes}
	case stderrors.As(err, &he):
		status = he.Code
		body = ErrorBody{Code: codeForStatus(he.Code), Message: http.StatusText(he.Code)}
		if msg, ok := he.Message.(string); ok && msg != "" {
			body.Message = msg
		}
	default:
		status = http.StatusInternalServerError
		body = ErrorBody{Code: errors.InternalError, Message: err.Error()}
	}

	req := c.Request()
	attrs := []any{
		"status", status,
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", GetRequestID(c),
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", attrs...)
	} else {
		s.logger.Debug("Request rejected", attrs...)
	}

	if req.Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorResponse{Error: body})
}

func codeForStatus(status int) errors.ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return errors.Unauthorized
	case http.StatusNotFound:
		return errors.NotFound
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusMethodNotAllowed:
		return errors.InvalidRequest
	default:
		return errors.InternalError
	}
}
