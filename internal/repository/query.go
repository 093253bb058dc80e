package repository

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 20
	maxLimit     = 100
	maxPage      = 10000
)

// ListParams holds pagination and free-text search for list queries. Page begins at 1.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// Normalize clamps page and limit into their valid ranges.
func (p *ListParams) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
}

func (p ListParams) offset() int {
	return (p.Page - 1) * p.Limit
}

// conditions accumulates WHERE clauses with positional postgres arguments.
type conditions struct {
	clauses []string
	args    []interface{}
}

// add appends a clause; every %[1]d in expr is replaced by the argument's position.
func (c *conditions) add(expr string, arg interface{}) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(expr, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause with full args.
func (c *conditions) page(p ListParams) (string, []interface{}) {
	n := len(c.args)
	args := append(append([]interface{}{}, c.args...), p.Limit, p.offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}

func likePattern(s string) string {
	return "%" + s + "%"
}
