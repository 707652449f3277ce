package handler

import (
	"errors"
	"fmt"
	"net/http"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type checkoutFailure struct {
	Message string `json:"message"`
	Order   any    `json:"order"`
}

// NewHTTPErrorHandler renders every error as {"message": ...} with its status.
// Errors that carry no status are logged and reported as 500.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error("write error response", zap.Error(writeErr))
		}
	}
}

func errorResponse(err error) (int, any) {
	var checkoutErr *service.CheckoutError
	if errors.As(err, &checkoutErr) {
		return checkoutErr.Err.Status, checkoutFailure{Message: checkoutErr.Err.Message, Order: checkoutErr.Order}
	}

	if appErr := apperror.From(err); appErr != nil {
		return appErr.Status, dto.MessageResponse{Message: appErr.Message}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = fmt.Sprint(httpErr.Message)
		}
		return httpErr.Code, dto.MessageResponse{Message: msg}
	}

	return http.StatusInternalServerError, dto.MessageResponse{Message: "服务器内部错误"}
}

func isUnauthorized(err error) bool {
	appErr := apperror.From(err)
	return appErr != nil && appErr.Status == http.StatusUnauthorized
}
