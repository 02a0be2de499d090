package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/studato/studato/core/reward"
)

type rewardApi struct {
	svc *reward.Service
}

func registerRewardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *reward.Service) {
	api := rewardApi{svc: svc}

	pg := g.Group("/points", jwt)
	pg.GET("", api.retrieve)
}

type PointsResponse struct {
	Total int `json:"total"`
}

func (api *rewardApi) retrieve(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	total, err := api.svc.Total(userID)
	if err != nil {
		return errors.Wrap(err, "getting points total")
	}
	return ctx.JSON(http.StatusOK, PointsResponse{Total: total})
}
