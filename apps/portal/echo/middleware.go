package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/llmhomework/portal/core/session"
)

// sessionMiddleware gates protected routes on the presence of stored
// credentials. It runs before any handler work, so an unauthenticated hit on
// a protected view never reaches the upstream API.
func sessionMiddleware(sess *session.Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !sess.Authenticated() {
				return errLoginRequired
			}
			return next(ctx)
		}
	}
}
