package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/studato/studato/core/study"
)

type studyApi struct {
	svc *study.Service
}

func registerStudyAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *study.Service) {
	api := studyApi{svc: svc}

	mg := g.Group("/methods", jwt)
	mg.GET("", api.queryMethods)
	mg.POST("", api.createMethod)
	mg.DELETE("/:name", api.destroyMethod)

	tg := g.Group("/tasks", jwt)
	tg.GET("", api.queryTasks)
	tg.POST("", api.createTask)
	tg.GET("/:id", api.retrieveTask)
	tg.DELETE("/:id", api.destroyTask)
	tg.POST("/:id/finish", api.finishTask)

	sg := g.Group("/sessions", jwt)
	sg.GET("", api.currentSession)
	sg.POST("", api.startSession)
	sg.POST("/pause", api.pauseSession)
	sg.POST("/resume", api.resumeSession)
	sg.POST("/reset", api.resetSession)
	sg.DELETE("", api.stopSession)
}

// Handlers

func (api *studyApi) queryMethods(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	methods, err := api.svc.Methods(userID)
	if err != nil {
		return errors.Wrap(err, "querying methods")
	}
	return ctx.JSON(http.StatusOK, methods)
}

func (api *studyApi) createMethod(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data study.NewMethod
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMethod")
	}

	m, err := api.svc.CreateMethod(userID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *studyApi) destroyMethod(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.DeleteMethod(userID, ctx.Param("name")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studyApi) queryTasks(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	tasks, err := api.svc.Tasks(userID)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	if tasks == nil {
		tasks = []study.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *studyApi) createTask(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data study.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}

	t, err := api.svc.CreateTask(userID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *studyApi) retrieveTask(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	t, err := api.svc.GetTask(userID, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *studyApi) destroyTask(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.DeleteTask(userID, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studyApi) finishTask(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	t, err := api.svc.FinishTask(userID, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *studyApi) currentSession(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	sess, ok := api.svc.CurrentSession(userID)
	if !ok {
		return study.ErrNoSession
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *studyApi) startSession(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data StartSessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StartSessionRequest")
	}

	sess, err := api.svc.StartSession(userID, data.TaskID, data.Method)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api *studyApi) pauseSession(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	sess, err := api.svc.PauseSession(userID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *studyApi) resumeSession(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	sess, err := api.svc.ResumeSession(userID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *studyApi) resetSession(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	sess, err := api.svc.ResetSession(userID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *studyApi) stopSession(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	sess, err := api.svc.StopSession(userID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}
