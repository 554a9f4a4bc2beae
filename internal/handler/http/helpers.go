package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/go-chi/chi/v5"
)

const maxBodySize = 15 << 20

// pathID reads a numeric id from the route. It writes the 400 itself and
// reports false when the value is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := refid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.BadRequest(w, "Invalid "+name, map[string]string{name: err.Error()})
		return 0, false
	}
	return id, true
}

// queryID reads an optional numeric id from the query string; zero means
// absent.
func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, true
	}
	id, err := refid.Parse(raw)
	if err != nil {
		response.BadRequest(w, "Invalid "+name, map[string]string{name: err.Error()})
		return 0, false
	}
	return id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(w, "Invalid "+name, map[string]string{name: "must be an integer"})
		return 0, false
	}
	return v, true
}

// decodeJSON decodes the body into dst and writes the 400 on failure. An
// empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		response.BadRequest(w, "Request body too large", nil)
	case errors.Is(err, refid.ErrInvalid):
		response.BadRequest(w, "Invalid request format", map[string]string{"reference": err.Error()})
	default:
		response.BadRequest(w, "Invalid request format", nil)
	}
	return false
}
