package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"goTwitter/auth"
	"goTwitter/errs"
)

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
}

// handleLogin handles the route "POST /login". The login field matches either
// an email address or a username. A missing user and a wrong password both
// surface as the same 401 so the distinction doesn't leak.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body"))
		return
	}
	if creds.Login == "" || creds.Password == "" {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Login and password are required"))
		return
	}

	user, err := s.us.ByEmail(strings.ToLower(creds.Login))
	if errs.ErrorCode(err) == errs.ENOTFOUND {
		user, err = s.us.ByUsername(strings.ToLower(creds.Login))
	}
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			err = errs.Errorf(errs.EUNAUTHORIZED, "Invalid login credentials")
		}
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.us.Authenticate(user, creds.Password); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	token, err := s.token.Issue(user)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, "Login successful", map[string]interface{}{
		"user":  user.Public(),
		"token": token,
	})
}

// requireAuth resolves the authenticated identity from the Authorization
// header and attaches a credential-free projection of the user to the request
// context. The Bearer prefix is optional and case-insensitive.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Authentication token is required"))
			return
		}

		token := strings.TrimSpace(header)
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[len("bearer "):])
		}
		if token == "" {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Authentication token is required"))
			return
		}

		claims, ok := s.token.Verify(token)
		if !ok {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Invalid or expired token"))
			return
		}

		user, err := s.us.ByID(claims.ID)
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "User not found"))
			return
		}

		ctx := auth.SetUser(r.Context(), user.Public())
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
