package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"goTwitter/domain"
	"goTwitter/errs"
)

func (s *Server) registerFollowRoutes(r *mux.Router) {
	// List all follow edges, public.
	r.HandleFunc("/follows", s.handleGetFollows).Methods("GET")

	// Follow a user. Only for the authed user's own account.
	r.HandleFunc("/follow", s.requireAuth(s.requireSelfFollow(s.handleCreateFollow))).Methods("POST")

	// Unfollow a user. Only for the authed user's own account.
	r.HandleFunc("/unfollow", s.requireAuth(s.requireSelfFollow(s.handleDeleteFollow))).Methods("DELETE")
}

// handleGetFollows handles the route "GET /follows".
func (s *Server) handleGetFollows(w http.ResponseWriter, r *http.Request) {
	follows, err := s.fs.FindAll()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, "Follows retrieved successfully", follows)
}

func decodeFollow(r *http.Request) (*domain.Follow, error) {
	var body struct {
		FollowerID  int `json:"follower_id"`
		FollowingID int `json:"following_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errs.Errorf(errs.EINVALID, "Invalid json body")
	}
	if body.FollowerID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Follower ID is required")
	}
	if body.FollowingID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Following ID is required")
	}
	return &domain.Follow{FollowerID: body.FollowerID, FollowingID: body.FollowingID}, nil
}

// handleCreateFollow handles the route "POST /follow".
func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	follow, err := decodeFollow(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.fs.Create(follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, "User followed successfully", follow)
}

// handleDeleteFollow handles the route "DELETE /unfollow".
func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	follow, err := decodeFollow(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.fs.Delete(follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, "User unfollowed successfully", nil)
}
