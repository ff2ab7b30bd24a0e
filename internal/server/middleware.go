package server

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"botlint/internal/errors"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = echo.HeaderXRequestID

// MaxBodySize caps uploaded bot exports.
const MaxBodySize = "32M"

const requestIDKey = "request_id"

// requestID reuses the caller's id or generates one.
func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:    uuid.NewString,
		TargetHeader: RequestIDHeader,
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set(requestIDKey, id)
		},
	})
}

// GetRequestID returns the id assigned by the request id middleware.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// logRequests logs method, path, status and duration of every request.
// Errors go through the server's error handler before the line is written.
func (s *Server) logRequests() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("HTTP request",
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"duration", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			)
			return nil
		},
	})
}

// recoverPanics turns handler panics into INTERNAL_ERROR responses.
func (s *Server) recoverPanics() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.logger.Error("Panic recovered",
				"error", err,
				"path", c.Request().URL.Path,
				"request_id", GetRequestID(c),
				"stack", string(stack),
			)
			return errors.New(errors.InternalError, fmt.Sprintf("internal error: %v", err), err)
		},
	})
}

// requireToken rejects requests without a bearer token matching hash.
func requireToken(hash string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(token string, _ echo.Context) (bool, error) {
			return VerifyToken(token, hash), nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			return errors.New(errors.Unauthorized, "missing or invalid bearer token", err)
		},
	})
}

// limitBody caps request bodies at MaxBodySize.
func limitBody() echo.MiddlewareFunc {
	return middleware.BodyLimit(MaxBodySize)
}
