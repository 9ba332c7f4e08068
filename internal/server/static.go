package server

import (
	"net/http"
	"strings"
)

// newStaticHandler serves files under root. Paths with a dot-prefixed
// segment (.env, .git) are never served.
func newStaticHandler(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasHiddenSegment(r.URL.Path) {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func hasHiddenSegment(urlPath string) bool {
	for _, segment := range strings.Split(urlPath, "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
