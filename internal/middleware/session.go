package middleware

import (
	"silkrhyme/internal/auth"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const sessionKey = "session"

// Session loads the account session named by the cookie into the echo context.
// Requests without a valid session continue as guests.
func Session(store *auth.Store, cookieName string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			session, err := store.Load(c.Request().Context(), cookie.Value)
			if err != nil {
				logger.Warn("load session failed", zap.Error(err))
				return next(c)
			}
			if session != nil {
				c.Set(sessionKey, session)
			}
			return next(c)
		}
	}
}

// SessionFrom returns the session loaded by Session, or nil for guests.
func SessionFrom(c echo.Context) *auth.Session {
	session, _ := c.Get(sessionKey).(*auth.Session)
	return session
}

// NoStore marks every response as non-cacheable.
func NoStore() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", "no-store")
			return next(c)
		}
	}
}
