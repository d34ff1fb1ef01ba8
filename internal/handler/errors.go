package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sonic-seats/internal/errs"
)

// ErrorHandler maps error classes to plain-text responses.  Validation
// failures carry their own message; every server-side failure gets the
// same generic message and its cause goes to the log instead.
func ErrorHandler(log *zap.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := classify(err)

		req := c.Request()
		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		}
		var ce *errs.ConsistencyError
		switch {
		case errors.As(err, &ce):
			fields = append(fields, zap.Strings("written", ce.Written), zap.String("failed", ce.Failed), zap.Bool("restored", ce.Restored))
			log.Error("documents left inconsistent", fields...)
		case status >= http.StatusInternalServerError:
			log.Error("request failed", fields...)
		case debug:
			log.Debug("request rejected", fields...)
		}

		if req.Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.String(status, msg)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func classify(err error) (int, string) {
	var (
		ve *errs.ValidationError
		he *echo.HTTPError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Msg
	case errors.As(err, &he):
		if he.Code >= http.StatusInternalServerError {
			return he.Code, errs.ServerErrorMessage
		}
		return he.Code, fmt.Sprint(he.Message)
	default:
		return http.StatusInternalServerError, errs.ServerErrorMessage
	}
}
