package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/swezzy/sheetcms"
)

type contextKey string

var (
	postKey   = contextKey("post")
	resultKey = contextKey("result")
)

type args map[string]interface{}

func (a args) WriteJSON(w http.ResponseWriter) {
	a.writeJSON(w, http.StatusOK)
}

func (a args) writeJSON(w http.ResponseWriter, code int) {
	b, err := json.Marshal(a)

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
}

// withResult adds the provenance of the posts to the response.
func (a args) withResult(res sheetcms.Result) args {
	a["origin"] = res.Origin.String()
	a["degraded"] = res.Degraded()
	if !res.FetchedAt.IsZero() {
		a["fetchedAt"] = res.FetchedAt
	}

	return a
}

// intParam reads a non-negative integer query parameter, falling back to def
// when absent. stop is true when a response has already been written.
func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (n int, stop bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, false
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return 0, true
	}

	return n, false
}
