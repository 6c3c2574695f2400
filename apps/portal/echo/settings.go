package echoapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/llmhomework/portal/core"
	"github.com/llmhomework/portal/core/session"
	"github.com/llmhomework/portal/storage/state"
)

// defaultViewportWidth stands in when the caller does not report one.
const defaultViewportWidth = 1024

type settingsApi struct {
	conf  *core.Config
	store state.Store
}

func registerSettingsAPI(g *echo.Group, deps ServerDeps) {
	a := settingsApi{conf: deps.Conf, store: deps.Store}

	g.GET("", a.retrieve)
	g.POST("", a.apply)
	g.DELETE("", a.reset)
}

// Handlers

func (a *settingsApi) retrieve(ctx echo.Context) error {
	s, err := a.load(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

// apply dispatches one settings action and persists the reduced record.
func (a *settingsApi) apply(ctx echo.Context) error {
	var action session.Action
	if err := ctx.Bind(&action); err != nil {
		return errors.Wrap(err, "binding to Action")
	}

	s, err := a.load(ctx)
	if err != nil {
		return err
	}
	s = session.Reduce(s, action)
	if err := a.save(s); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

// reset discards the stored record; the next retrieve re-derives defaults.
func (a *settingsApi) reset(ctx echo.Context) error {
	if err := a.store.Del(state.KeySettings); err != nil {
		return errors.Wrap(err, "deleting stored settings")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// load returns the stored record, or defaults derived from the caller's
// reported viewport width and current path.
func (a *settingsApi) load(ctx echo.Context) (session.Settings, error) {
	if raw, ok := a.store.Get(state.KeySettings); ok {
		var s session.Settings
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return s, errors.Wrap(err, "decoding stored settings")
		}
		return s, nil
	}

	width := defaultViewportWidth
	if v := ctx.QueryParam("viewport"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			width = w
		}
	}
	return session.DefaultSettings(width, ctx.QueryParam("path")), nil
}

func (a *settingsApi) save(s session.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}
	return errors.Wrap(a.store.Set(state.KeySettings, string(raw)), "storing settings")
}
