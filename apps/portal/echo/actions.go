package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/llmhomework/portal/services/api"
)

// actionApi forwards the views' form submissions upstream. The upstream API
// is the authority on permissions; a role short on privilege gets its error
// envelope relayed back, the same way the views' fetches do.
type actionApi struct {
	client *api.Client
}

func registerActionAPI(g *echo.Group, deps ServerDeps) {
	a := actionApi{client: deps.Client}

	g.POST("/course", a.saveCourse)
	g.POST("/experiment", a.createExperiment)
	g.POST("/helptopic", a.createHelpTopic)
	g.POST("/request/addcourse", a.requestAddCourse)
	g.POST("/request/addexperiment", a.requestAddExperiment)
	g.POST("/request/updatescore", a.requestUpdateScore)
	g.PATCH("/user", a.updateUser)
	g.PUT("/request", a.reviewRequest)
}

// Handlers

// saveCourse creates or, when the payload carries an id, updates a course.
func (a *actionApi) saveCourse(ctx echo.Context) error {
	var data api.SaveCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveCourse")
	}
	res, err := a.client.SaveCourse(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (a *actionApi) createExperiment(ctx echo.Context) error {
	var data api.NewExperiment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExperiment")
	}
	res, err := a.client.CreateExperiment(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (a *actionApi) createHelpTopic(ctx echo.Context) error {
	var data api.NewHelpTopic
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHelpTopic")
	}
	res, err := a.client.CreateHelpTopic(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (a *actionApi) requestAddCourse(ctx echo.Context) error {
	var data api.AddCourseRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddCourseRequest")
	}
	id, err := a.client.RequestAddCourse(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (a *actionApi) requestAddExperiment(ctx echo.Context) error {
	var data api.AddExperimentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddExperimentRequest")
	}
	id, err := a.client.RequestAddExperiment(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"id": id})
}

func (a *actionApi) requestUpdateScore(ctx echo.Context) error {
	var data api.UpdateScoreRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateScoreRequest")
	}
	id, err := a.client.RequestUpdateScore(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"id": id})
}

// updateUser applies an inline edit from the user management table.
func (a *actionApi) updateUser(ctx echo.Context) error {
	var data api.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	res, err := a.client.UpdateUser(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

// reviewRequest settles a pending request; on approval the upstream applies
// the requested change itself.
func (a *actionApi) reviewRequest(ctx echo.Context) error {
	var data api.ReviewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReviewRequest")
	}
	res, err := a.client.ReviewRequest(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
