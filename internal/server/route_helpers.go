package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/bobmcallan/stock-analyser/internal/handlers"
)

// MethodRouter maps HTTP methods to the API handler serving them.
type MethodRouter map[string]http.HandlerFunc

// Allowed lists the routed methods for the Allow header.
func (m MethodRouter) Allowed() string {
	methods := make([]string, 0, len(m)+1)
	for method := range m {
		methods = append(methods, method)
	}
	if _, ok := m[http.MethodGet]; ok {
		if _, ok := m[http.MethodHead]; !ok {
			methods = append(methods, http.MethodHead)
		}
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}

// RouteByMethod dispatches an API request on its method. HEAD falls back
// to the GET handler; anything else unrouted gets a JSON 405.
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	handler, ok := routes[r.Method]
	if !ok && r.Method == http.MethodHead {
		handler, ok = routes[http.MethodGet]
	}
	if !ok {
		w.Header().Set("Allow", routes.Allowed())
		handlers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	handler(w, r)
}

// apiRoute binds routes into a handler for one API path.
func apiRoute(routes MethodRouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, routes)
	}
}
