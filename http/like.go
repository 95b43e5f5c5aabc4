package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"goTwitter/domain"
	"goTwitter/errs"
)

func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Like a tweet.
	r.HandleFunc("/like/{user_id}/{tweet_id}", s.requireAuth(s.requireOwner(ownLike, s.handleCreateLike))).Methods("POST")

	// Unlike a tweet by like id.
	r.HandleFunc("/like/{id}", s.requireAuth(s.requireOwner(ownLike, s.handleDeleteLike))).Methods("DELETE")
}

// handleCreateLike handles the route "POST /like/{user_id}/{tweet_id}".
func (s *Server) handleCreateLike(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "user_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	tweetID, err := parseIDParam(r, "tweet_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	like := domain.Like{UserID: userID, TweetID: tweetID}
	if err := s.ls.Create(&like); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, "Tweet liked successfully", like)
}

// handleDeleteLike handles the route "DELETE /like/{id}".
func (s *Server) handleDeleteLike(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.ls.Delete(id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, "Like removed successfully", nil)
}
