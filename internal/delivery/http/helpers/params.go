package helpers

import (
	"net/http"
	"strconv"
	"strings"

	"sporthive/internal/domain"
)

// PathID reads the named path value as a positive int64. On failure it writes
// a 400 JSON error and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// ParseActivityQuery reads searchText, name, description and type from the query string.
func ParseActivityQuery(r *http.Request) domain.ActivityQuery {
	q := r.URL.Query()
	return domain.ActivityQuery{
		SearchText:  strings.TrimSpace(q.Get("searchText")),
		Name:        strings.TrimSpace(q.Get("name")),
		Description: strings.TrimSpace(q.Get("description")),
		Type:        strings.TrimSpace(q.Get("type")),
	}
}
