package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/studato/studato/core/review"
)

type reviewApi struct {
	svc *review.Service
}

func registerReviewAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *review.Service) {
	api := reviewApi{svc: svc}

	cg := g.Group("/cards", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/counts", api.counts)
	cg.POST("/study", api.startPass)
	cg.GET("/:id", api.retrieve)
	cg.DELETE("/:id", api.destroy)
	cg.POST("/:id/grade", api.grade)
}

// Handlers

func (api *reviewApi) query(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	filter, err := bindCardFilter(ctx)
	if err != nil {
		return err
	}

	cards, err := api.svc.Query(userID, filter)
	if err != nil {
		return errors.Wrap(err, "querying cards")
	}
	if cards == nil {
		cards = []review.Flashcard{}
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *reviewApi) create(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data review.NewCard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCard")
	}

	c, err := api.svc.Create(userID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *reviewApi) retrieve(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	c, err := api.svc.Get(userID, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *reviewApi) destroy(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(userID, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *reviewApi) counts(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	counts, err := api.svc.Counts(userID)
	if err != nil {
		return errors.Wrap(err, "counting cards")
	}
	res := make(map[string]int, len(counts))
	for status, n := range counts {
		res[status.String()] = n
	}
	return ctx.JSON(http.StatusOK, res)
}

// startPass assembles the shuffled due set for a study run.
func (api *reviewApi) startPass(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	cards, err := api.svc.StartPass(userID)
	if err != nil {
		return errors.Wrap(err, "starting study pass")
	}
	if cards == nil {
		cards = []review.Flashcard{}
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *reviewApi) grade(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}
	outcome, err := review.ParseOutcome(data.Outcome)
	if err != nil {
		return err
	}

	c, err := api.svc.GradeCard(userID, ctx.Param("id"), outcome)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}
