package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/llmhomework/portal/core"
	"github.com/llmhomework/portal/services/api"
)

// loginExpiredMsg is surfaced when a protected route is hit without valid
// credentials; the client shows it on the login view it lands back on.
const loginExpiredMsg = "Login expired. Please login again."

var (
	errHttpNotFound    = echo.NewHTTPError(http.StatusNotFound, "not found")
	errMissingPath     = echo.NewHTTPError(http.StatusBadRequest, "path query parameter is required")
	errLoginRequired   = echo.NewHTTPError(http.StatusUnauthorized, loginRedirect(loginExpiredMsg))
	errSessionNotFound = echo.NewHTTPError(http.StatusUnauthorized, "no active session")
)

// loginRedirect is the 401 payload: it carries the login route and the
// message the login view displays after being navigated back to.
func loginRedirect(msg string) echo.Map {
	return echo.Map{"redirect": "/login", "navBackMsg": msg}
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how
// to handle our errors. An upstream auth failure clears the stored credentials
// before answering, so the next dispatch lands on login without a round trip.
// signalShutdown is called whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(deps ServerDeps, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(deps.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *api.AuthError:
			// stale/invalid token: drop it and send the caller back to login
			if lErr := deps.Session.Logout(); lErr != nil {
				deps.Logger.Error("clearing session", lErr)
			}
			code = http.StatusUnauthorized
			m := loginRedirect(loginExpiredMsg)
			m["code"] = origErr.Code
			message = m
		case *api.Error:
			code = http.StatusBadRequest
			message = echo.Map{"error": origErr.Message, "code": origErr.Code}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			args := []interface{}{errors.Wrap(err, msg)}
			if usr, uErr := deps.Session.User(); uErr == nil {
				args = append(args, usr)
			}
			deps.Logger.Error(msg, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
