package request

import (
	"net/url"

	"ecommerce-backend/pkg/utils"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// PaginationFromQuery reads page/per_page, falling back to 1 and 10.
func PaginationFromQuery(q url.Values) PaginatedRequest {
	return PaginatedRequest{
		Page:    utils.QueryInt(q.Get("page"), 1, 0),
		PerPage: utils.QueryInt(q.Get("per_page"), defaultPerPage, maxPerPage),
	}
}

func (p PaginatedRequest) Offset() int {
	return utils.Offset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return defaultPerPage
	case p.PerPage > maxPerPage:
		return maxPerPage
	}
	return p.PerPage
}
