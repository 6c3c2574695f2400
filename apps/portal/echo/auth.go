package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/llmhomework/portal/core/session"
	"github.com/llmhomework/portal/core/user"
	"github.com/llmhomework/portal/services/api"
)

type authApi struct {
	session    *session.Session
	client     *api.Client
	validate   *validator.Validate
	translator ut.Translator
}

func registerAuthAPI(g *echo.Group, deps ServerDeps, authed echo.MiddlewareFunc) {
	a := authApi{
		session:    deps.Session,
		client:     deps.Client,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	g.POST("/login", a.login)
	g.POST("/email-verification", a.emailVerification)
	g.POST("/vcode-verification", a.vcodeVerification)
	g.POST("/register", a.register)
	g.POST("/register-old", a.registerOld)
	g.POST("/logout", a.logout)
	g.GET("/session", a.currentSession)
	g.PATCH("/password", a.changePassword, authed)
}

// Handlers

func (a *authApi) login(ctx echo.Context) error {
	var data user.Login
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Login")
	}
	data.Clean()
	if err := a.validate.Struct(data); err != nil {
		return err
	}

	res, err := a.client.Login(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	if err := a.session.Login(res.Token, res.User); err != nil {
		return errors.Wrap(err, "storing session")
	}

	return ctx.JSON(http.StatusOK, res.User)
}

// emailVerification starts the mail-verified signup: upstream mails a code
// to the given address.
func (a *authApi) emailVerification(ctx echo.Context) error {
	var data user.EmailVerification
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailVerification")
	}
	data.Clean()
	if err := a.validate.Struct(data); err != nil {
		return err
	}

	if err := a.client.RequestEmailVerification(ctx.Request().Context(), data.Email); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Verification code sent."})
}

// vcodeVerification confirms a mailed code and echoes the address it was
// issued for, so the signup form can display it.
func (a *authApi) vcodeVerification(ctx echo.Context) error {
	var data user.CodeVerification
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CodeVerification")
	}
	data.Clean()
	if err := a.validate.Struct(data); err != nil {
		return err
	}

	email, err := a.client.VerifyCode(ctx.Request().Context(), data.VCode)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"email": email})
}

// register completes a mail-verified signup.
func (a *authApi) register(ctx echo.Context) error {
	var data user.CodeRegister
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CodeRegister")
	}
	data.Clean()
	if err := a.validate.Struct(data); err != nil {
		return err
	}

	if err := a.client.RegisterWithCode(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "Registration successful. Please login."})
}

// registerOld is the legacy single-form signup.
func (a *authApi) registerOld(ctx echo.Context) error {
	var data user.Register
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Register")
	}
	data.Clean()
	if err := a.validate.Struct(data); err != nil {
		return err
	}

	if err := a.client.Register(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "Registration successful. Please login."})
}

// changePassword rotates the stored user's password upstream.
func (a *authApi) changePassword(ctx echo.Context) error {
	var data user.PasswordChange
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordChange")
	}
	if err := a.validate.Struct(data); err != nil {
		return err
	}

	usr, err := a.session.User()
	if err != nil {
		return errors.Wrap(err, "loading stored user")
	}
	if err := a.client.ChangePassword(ctx.Request().Context(), usr.ID, data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Password changed."})
}

// logout clears the stored state whatever the upstream says; a failed
// upstream logout must not leave the client stuck with dead credentials.
func (a *authApi) logout(ctx echo.Context) error {
	if a.session.Authenticated() {
		if err := a.client.Logout(ctx.Request().Context()); err != nil {
			ctx.Logger().Warnf("upstream logout: %v", err)
		}
	}
	if err := a.session.Logout(); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (a *authApi) currentSession(ctx echo.Context) error {
	if !a.session.Authenticated() {
		return errSessionNotFound
	}
	usr, err := a.session.User()
	if err != nil {
		return errors.Wrap(err, "loading stored user")
	}
	return ctx.JSON(http.StatusOK, usr)
}
