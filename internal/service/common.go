package service

import (
	"database/sql"
	"errors"

	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/utils"
)

// Page is one page of a listing together with the total number of matches.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// authorize turns a policy denial into the matching AppError.
func authorize(p policy.Principal, r policy.Resource, op policy.Operation) error {
	d := policy.Authorize(p, r, op)
	if d.Allowed {
		return nil
	}
	if d.Reason == policy.ReasonAuthRequired {
		return utils.Unauthorized(d.Reason)
	}
	return utils.Forbidden(d.Reason)
}

// notFound maps a missing row to nf and passes other errors through.
func notFound(err error, nf *utils.AppError) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nf
	}
	return err
}
