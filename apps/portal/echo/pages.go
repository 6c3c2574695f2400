package echoapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/llmhomework/portal/core"
	"github.com/llmhomework/portal/core/nav"
	"github.com/llmhomework/portal/core/session"
	"github.com/llmhomework/portal/services/api"
)

// Page is the render model for one resolved view: the component to mount,
// its bound parameters, the breadcrumb trail and the fetched view data.
type Page struct {
	Component   string            `json:"component"`
	Params      map[string]string `json:"params,omitempty"`
	Breadcrumbs []nav.Crumb       `json:"breadcrumbs"`
	Data        interface{}       `json:"data,omitempty"`
}

// fetchFunc loads the upstream data a component renders. A nil entry means
// the component needs no upstream call to mount. vals carries the raw query
// string for components whose prefetch hangs off it.
type fetchFunc func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error)

type pageApi struct {
	conf     *core.Config
	session  *session.Session
	client   *api.Client
	forest   []*nav.Node
	fetchers map[string]fetchFunc
}

func registerPageAPI(g *echo.Group, deps ServerDeps, forest []*nav.Node) {
	a := pageApi{
		conf:     deps.Conf,
		session:  deps.Session,
		client:   deps.Client,
		forest:   forest,
		fetchers: newFetchers(),
	}
	g.GET("/*", a.dispatch)
}

// questionView is the question detail render data: the question itself plus
// the accepted answers listed below it.
type questionView struct {
	Question api.Question   `json:"question"`
	Answers  api.AnswerList `json:"answers"`
}

// newFetchers maps each data-backed component to its upstream call. The
// detail views read their record ID from the match's bound parameter.
func newFetchers() map[string]fetchFunc {
	return map[string]fetchFunc{
		"course/list": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			return c.ListCourses(ctx, q)
		},
		// the edit form preloads the course named by ?course_code; without
		// it the form mounts blank for a create
		"course/create-or-edit": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			code := vals.Get("course_code")
			if code == "" {
				return nil, nil
			}
			return c.GetCourseByCode(ctx, code)
		},
		"question/search": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			return c.ListQuestions(ctx, q)
		},
		"question/list": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			return c.ListQuestions(ctx, q)
		},
		"question/view": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			id := m.Params[nav.DetailParam]
			question, err := c.GetQuestion(ctx, id)
			if err != nil {
				return nil, err
			}
			answers, err := c.ListAnswers(ctx, id, q)
			if err != nil {
				return nil, err
			}
			return questionView{Question: question, Answers: answers}, nil
		},
		"experiment/list": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			return c.ListExperiments(ctx, q)
		},
		"experiment/view": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			return c.GetExperiment(ctx, m.Params[nav.DetailParam])
		},
		"helptopic/list": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			return c.ListHelpTopics(ctx, q)
		},
		"helptopic/view": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			return c.GetHelpTopic(ctx, m.Params[nav.DetailParam])
		},
		"request/list": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			return c.ListMyRequests(ctx, q)
		},
		"management/users": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			return c.ListUsers(ctx, q)
		},
		"management/requests": func(ctx context.Context, c *api.Client, m nav.Match, q api.PageQuery, vals url.Values) (interface{}, error) {
			return c.ListAllRequests(ctx, q)
		},
	}
}

// dispatch resolves the requested path against the forest and assembles the
// render model. Role gating affects only what the menu shows; a directly
// entered URL always dispatches and the upstream API stays the authority on
// data access.
func (a *pageApi) dispatch(ctx echo.Context) error {
	path := "/" + ctx.Param("*")

	if target, ok := nav.RedirectTarget(a.forest, path); ok {
		return ctx.Redirect(http.StatusFound, "/pages"+target)
	}

	m := nav.Resolve(a.forest, path)
	active := m.Active()
	if active == nil || m.Consumed != len(nav.SplitPath(path)) {
		return a.notFound(ctx)
	}
	if active.IsWildcard() {
		return a.notFound(ctx)
	}
	if active.Component == "" {
		// a view-less parent that carries no redirect has nothing to render
		return a.notFound(ctx)
	}

	page := Page{
		Component:   active.Component,
		Breadcrumbs: nav.Breadcrumbs(a.forest, path, a.conf.SiteName),
	}
	if len(m.Params) > 0 {
		page.Params = m.Params
	}

	if fetch := a.fetchers[active.Component]; fetch != nil {
		data, err := fetch(ctx.Request().Context(), a.client, m, a.pageQuery(ctx), ctx.QueryParams())
		if err != nil {
			return err
		}
		page.Data = data
	} else if active.Component == "home" || active.Component == "profile/user-information" {
		if usr, err := a.session.User(); err == nil {
			page.Data = usr
		}
	}

	return ctx.JSON(http.StatusOK, page)
}

func (a *pageApi) notFound(ctx echo.Context) error {
	return ctx.JSON(http.StatusNotFound, Page{
		Component:   "not-found",
		Breadcrumbs: []nav.Crumb{{Label: a.conf.SiteName, Link: "/home"}},
	})
}

// pageQuery reads the list pagination controls off the query string.
func (a *pageApi) pageQuery(ctx echo.Context) api.PageQuery {
	q := api.PageQuery{
		Keyword:  ctx.QueryParam("keyword"),
		PageSize: a.conf.PageSize,
	}
	if v, err := strconv.Atoi(ctx.QueryParam("current")); err == nil && v > 0 {
		q.Current = v
	}
	if v, err := strconv.Atoi(ctx.QueryParam("pageSize")); err == nil && v > 0 {
		q.PageSize = v
	}
	return q
}

// registerOutsidePages serves the unauthenticated surface: the login and
// registration views render without a session.
func registerOutsidePages(e *echo.Echo) {
	for _, n := range nav.OutsideRoutes() {
		component := n.Component
		path := "/" + n.Segment
		e.GET(path, func(ctx echo.Context) error {
			page := Page{Component: component, Breadcrumbs: []nav.Crumb{}}
			if msg := ctx.QueryParam("navBackMsg"); msg != "" {
				page.Data = echo.Map{"navBackMsg": msg}
			}
			return ctx.JSON(http.StatusOK, page)
		})
	}
}
