// Package web - top-level HTTP handlers.
package web

import "net/http"

// handleIndex serves a minimal plain-text landing page describing the
// available routes.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("teachdb\n\n" +
		"GET  /health\n" +
		"GET  /api/tables\n" +
		"GET  /api/tables/{name}\n" +
		"POST /api/query     {\"sql\": \"SELECT ...\"}\n" +
		"POST /api/explain   {\"sql\": \"SELECT ...\"}\n"))
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("OK"))
}
