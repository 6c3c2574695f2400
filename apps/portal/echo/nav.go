package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/llmhomework/portal/core"
	"github.com/llmhomework/portal/core/nav"
	"github.com/llmhomework/portal/core/session"
)

type navApi struct {
	conf    *core.Config
	session *session.Session
	forest  []*nav.Node
}

func registerNavAPI(g *echo.Group, deps ServerDeps, forest []*nav.Node) {
	a := navApi{conf: deps.Conf, session: deps.Session, forest: forest}

	g.GET("/menu", a.menu)
	g.GET("/breadcrumbs", a.breadcrumbs)
	g.GET("/resolve", a.resolve)
}

// Resolution is the wire form of a path match.
type Resolution struct {
	Segments  []string          `json:"segments"`
	Consumed  int               `json:"consumed"`
	Params    map[string]string `json:"params,omitempty"`
	Component string            `json:"component,omitempty"`
	Redirect  string            `json:"redirect,omitempty"`
}

// Handlers

// menu projects the forest for the stored user's role. The projection is
// recomputed per request, so a role change is reflected without a restart.
func (a *navApi) menu(ctx echo.Context) error {
	items := nav.BuildMenu(a.forest, a.session.Role())
	if items == nil {
		items = []nav.MenuItem{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (a *navApi) breadcrumbs(ctx echo.Context) error {
	path := ctx.QueryParam("path")
	if path == "" {
		return errMissingPath
	}
	return ctx.JSON(http.StatusOK, nav.Breadcrumbs(a.forest, path, a.conf.SiteName))
}

func (a *navApi) resolve(ctx echo.Context) error {
	path := ctx.QueryParam("path")
	if path == "" {
		return errMissingPath
	}

	m := nav.Resolve(a.forest, path)
	res := Resolution{
		Segments: make([]string, 0, len(m.Chain)),
		Consumed: m.Consumed,
	}
	if len(m.Params) > 0 {
		res.Params = m.Params
	}
	for _, n := range m.Chain {
		res.Segments = append(res.Segments, n.Segment)
	}
	if active := m.Active(); active != nil {
		res.Component = active.Component
	}
	if target, ok := nav.RedirectTarget(a.forest, path); ok {
		res.Redirect = target
	}
	return ctx.JSON(http.StatusOK, res)
}
