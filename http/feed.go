package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"goTwitter/auth"
	"goTwitter/errs"
)

func (s *Server) registerFeedRoutes(r *mux.Router) {
	r.HandleFunc("/feed", s.requireAuth(s.handleGetFeed)).Methods("GET")
}

// handleGetFeed handles the route "GET /feed". The feed belongs to the
// authenticated user, no parameters are taken.
func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	feed, err := s.feed.Feed(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, "User feed retrieved successfully", feed)
}
