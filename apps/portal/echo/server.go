// Package echoapi is the portal's HTTP shell: it exposes the navigation
// model, the settings store and the upstream proxy over a local REST surface.
package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/llmhomework/portal/core"
	"github.com/llmhomework/portal/core/nav"
	"github.com/llmhomework/portal/core/session"
	"github.com/llmhomework/portal/services/api"
	"github.com/llmhomework/portal/storage/state"
)

type ServerDeps struct {
	Conf       *core.Config
	Logger     core.Logger
	Session    *session.Session
	Client     *api.Client
	Store      state.Store
	Validate   *validator.Validate
	Translator ut.Translator
}

type Server struct {
	deps     ServerDeps
	app      *echo.Echo
	forest   []*nav.Node
	errors   chan error
	shutdown chan os.Signal
}

// NewServer wires the portal routes. The navigation forest is validated here:
// a malformed forest refuses to start rather than misroute at runtime.
func NewServer(deps ServerDeps) (*Server, error) {
	forest := nav.Routes()
	if err := nav.Validate(forest); err != nil {
		return nil, errors.Wrap(err, "validating navigation forest")
	}

	s := &Server{
		deps:     deps,
		app:      echo.New(),
		forest:   forest,
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s, nil
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.root)
	registerOutsidePages(s.app)

	authed := sessionMiddleware(s.deps.Session)
	registerAuthAPI(s.app.Group("/auth"), s.deps, authed)
	registerNavAPI(s.app.Group("/nav", authed), s.deps, s.forest)
	registerSettingsAPI(s.app.Group("/settings", authed), s.deps)
	registerPageAPI(s.app.Group("/pages", authed), s.deps, s.forest)
	registerActionAPI(s.app.Group("/actions", authed), s.deps)
}

// root re-targets to the stored user's landing page, or to login.
func (s *Server) root(ctx echo.Context) error {
	if s.deps.Session.Authenticated() {
		return ctx.Redirect(http.StatusFound, "/pages/home")
	}
	return ctx.Redirect(http.StatusFound, "/login")
}

func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.errors <- s.app.Start(s.deps.Conf.Server.Host)
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
