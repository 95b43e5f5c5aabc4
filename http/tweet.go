package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"goTwitter/domain"
	"goTwitter/errs"
)

func (s *Server) registerTweetRoutes(r *mux.Router) {
	// List all root tweets with their reply trees, public.
	r.HandleFunc("/tweets", s.handleGetTweets).Methods("GET")

	// Create a tweet, or a reply when parent_id is set.
	r.HandleFunc("/tweet", s.requireAuth(s.requireOwner(ownTweet, s.handleCreateTweet))).Methods("POST")

	// Update a tweet's content.
	r.HandleFunc("/tweet/{id}", s.requireAuth(s.requireOwner(ownTweet, s.handleUpdateTweet))).Methods("PUT")

	// Delete a tweet.
	r.HandleFunc("/tweet/{id}", s.requireAuth(s.requireOwner(ownTweet, s.handleDeleteTweet))).Methods("DELETE")
}

// handleGetTweets handles the route "GET /tweets".
func (s *Server) handleGetTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := s.ts.FindAll()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, "Tweets retrieved successfully", tweets)
}

// handleCreateTweet handles the route "POST /tweet".
func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var tweet domain.Tweet
	if err := json.NewDecoder(r.Body).Decode(&tweet); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body"))
		return
	}

	if err := s.ts.Create(&tweet); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, "Tweet created successfully", tweet)
}

// handleUpdateTweet handles the route "PUT /tweet/{id}".
func (s *Server) handleUpdateTweet(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body"))
		return
	}

	tweet := domain.Tweet{ID: id, Content: body.Content}
	if err := s.ts.Update(&tweet); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, "Tweet updated successfully", tweet)
}

// handleDeleteTweet handles the route "DELETE /tweet/{id}".
func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.ts.Delete(id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, "Tweet deleted successfully", nil)
}
