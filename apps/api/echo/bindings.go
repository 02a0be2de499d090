package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/studato/studato/core/review"
)

type (
	StartSessionRequest struct {
		TaskID string `json:"task_id"`
		Method string `json:"method"`
	}

	GradeRequest struct {
		Outcome string `json:"outcome"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

// CardFilter binds the card listing query params onto a review.QueryFilter.
type CardFilter struct {
	Status string `query:"status"`
	Tag    string `query:"tag"`
	Due    bool   `query:"due"`
	Sort   string `query:"sort"`
}

func (cf CardFilter) ToQueryFilter() (review.QueryFilter, error) {
	filter := review.QueryFilter{
		Tag:     cf.Tag,
		DueOnly: cf.Due,
		SortBy:  cf.Sort,
	}
	if cf.Status != "" {
		status, err := review.ParseStatus(cf.Status)
		if err != nil {
			return review.QueryFilter{}, err
		}
		filter.Status = &status
	}
	return filter, nil
}

func bindCardFilter(ctx echo.Context) (review.QueryFilter, error) {
	var cf CardFilter
	if err := ctx.Bind(&cf); err != nil {
		return review.QueryFilter{}, err
	}
	return cf.ToQueryFilter()
}
