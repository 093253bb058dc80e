package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

// pathID parses the :id path parameter. On failure it writes a 400 and
// returns false.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

// queryID parses an optional numeric query parameter. A present but
// malformed value writes a 400 and returns false.
func queryID(c *gin.Context, key string) (*int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid "+key)
		return nil, false
	}
	return &id, true
}

// listParams reads page, limit and search from the query string.
func listParams(c *gin.Context) repository.ListParams {
	var p repository.ListParams
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
		}
	}
	p.Search = c.Query("search")
	p.Normalize()
	return p
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return false
	}
	return true
}

func respondPage[T any](c *gin.Context, message string, page *service.Page[T], params repository.ListParams) {
	utils.SuccessWithPagination(c, http.StatusOK, message, page.Items, params.Page, params.Limit, page.Total)
}
