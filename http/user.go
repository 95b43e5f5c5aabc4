package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"goTwitter/domain"
	"goTwitter/errs"
)

func (s *Server) registerUserRoutes(r *mux.Router) {
	// List all users, public.
	r.HandleFunc("/users", s.handleGetUsers).Methods("GET")

	// Get a user's profile with followers and following.
	r.HandleFunc("/user/{id}", s.requireAuth(s.handleGetUser)).Methods("GET")

	// Register a new user, public.
	r.HandleFunc("/user", s.handleCreateUser).Methods("POST")

	// Update the user's own record.
	r.HandleFunc("/user/{id}", s.requireAuth(s.requireOwner(ownUser, s.handleUpdateUser))).Methods("PUT")

	// Delete the user's own record.
	r.HandleFunc("/user/{id}", s.requireAuth(s.requireOwner(ownUser, s.handleDeleteUser))).Methods("DELETE")
}

// handleGetUsers handles the route "GET /users".
func (s *Server) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.us.FindAll()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	public := make([]*domain.User, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	respondJSON(w, r, http.StatusOK, "Users retrieved successfully", public)
}

// handleGetUser handles the route "GET /user/{id}". The user record is
// augmented with its followers and following lists.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user, err := s.us.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	profile := user.Public()
	if profile.Followers, err = s.us.Followers(id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if profile.Following, err = s.us.Following(id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	for i := range profile.Followers {
		profile.Followers[i] = profile.Followers[i].Public()
	}
	for i := range profile.Following {
		profile.Following[i] = profile.Following[i].Public()
	}

	respondJSON(w, r, http.StatusOK, "User found", profile)
}

// handleCreateUser handles the route "POST /user". The returned record never
// includes the credential.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body"))
		return
	}

	if err := s.us.Create(&user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, "User created successfully", user.Public())
}

// handleUpdateUser handles the route "PUT /user/{id}". Partial changes are
// applied on top of the existing record.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	existing, err := s.us.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	var changes struct {
		Name         *string `json:"name"`
		Username     *string `json:"username"`
		Email        *string `json:"email"`
		Password     *string `json:"password"`
		ProfileImage *string `json:"profile_image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body"))
		return
	}
	if changes.Name != nil {
		existing.Name = *changes.Name
	}
	if changes.Username != nil {
		existing.Username = *changes.Username
	}
	if changes.Email != nil {
		existing.Email = *changes.Email
	}
	if changes.Password != nil {
		existing.Password = *changes.Password
	}
	if changes.ProfileImage != nil {
		existing.ProfileImage = *changes.ProfileImage
	}

	if err := s.us.Update(existing); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, "User updated successfully", existing.Public())
}

// handleDeleteUser handles the route "DELETE /user/{id}".
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.us.Delete(id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, "User deleted successfully", nil)
}
