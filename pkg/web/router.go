package web

import "net/http"

// Router is a ServeMux that renders a custom page for requests no pattern
// matches.
type Router struct {
	*http.ServeMux
	notFound http.Handler
}

// NewRouter creates a Router that answers unmatched requests with the
// ServeMux default.
func NewRouter() *Router {
	return &Router{ServeMux: http.NewServeMux()}
}

// NotFound sets the handler for unmatched requests.
func (r *Router) NotFound(h http.Handler) {
	r.notFound = h
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.notFound != nil {
		if _, pattern := r.Handler(req); pattern == "" {
			r.notFound.ServeHTTP(w, req)
			return
		}
	}
	r.ServeMux.ServeHTTP(w, req)
}
