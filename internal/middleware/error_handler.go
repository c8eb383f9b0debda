package middleware

import (
	"log/slog"
	"net/http"

	"github.com/enoteca-decanter/agenda/internal/dto"
	"github.com/enoteca-decanter/agenda/internal/lib/logger/sl"
	"github.com/labstack/echo/v4"
)

// ErrorHandler writes every error as {"message": ...}. Errors that are not
// echo.HTTPErrors become 500s and are logged.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := unwrap(err)
		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				slog.String("method", c.Request().Method),
				slog.String("uri", c.Request().RequestURI),
				sl.Err(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, dto.ErrorResponse{Message: msg})
	}
}

// HTMLErrorHandler is the browser-facing variant: a plain page with the message.
func HTMLErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := unwrap(err)
		if code >= http.StatusInternalServerError {
			log.Error("request failed", slog.String("uri", c.Request().RequestURI), sl.Err(err))
			msg = http.StatusText(code)
		}
		_ = c.String(code, msg)
	}
}

func unwrap(err error) (int, string) {
	code := http.StatusInternalServerError
	msg := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	return code, msg
}
