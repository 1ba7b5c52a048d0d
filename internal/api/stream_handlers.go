package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kz4killua/wikirec/internal/http/response"
)

// registerStreamRoutes mounts the chi routes that can't go through huma:
// the event stream and the result redirect. Both accept the session token as
// a query parameter, since browsers can't set headers on EventSource or links.
func (s *Server) registerStreamRoutes() {
	s.router.Get(finderSessionPath+"/events", s.handleSessionEvents)
	s.router.Get(finderSessionPath+"/results/{itemID}/open", s.handleOpenResult)
}

// handleSessionEvents streams a session's events.
// GET /api/v1/finder/sessions/{id}/events?token=
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	if _, err := s.requireSession(r.Context(), sessionID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.sseHandler.Serve(w, r, sessionID)
}

// handleOpenResult redirects to a web search for one recommended item.
// GET /api/v1/finder/sessions/{id}/results/{itemID}/open?token=
func (s *Server) handleOpenResult(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	sess, err := s.requireSession(r.Context(), sessionID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	item, err := sess.Result(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Cache-Control", CacheNoStore)
	http.Redirect(w, r, item.SearchURL, http.StatusFound)
}
