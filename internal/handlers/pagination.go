package handlers

import (
	"net/http"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// parsePagination reads page and limit query parameters, applying the 1/10
// defaults and clamping limit to maxLimit so a single request cannot demand
// an unbounded result set.
func parsePagination(r *http.Request, maxLimit int) (limit, offset int) {
	page := queryInt(r, "page", defaultPage)
	if page < 1 {
		page = defaultPage
	}

	limit = queryInt(r, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	return limit, (page - 1) * limit
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}
