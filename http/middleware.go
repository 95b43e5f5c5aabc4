package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"goTwitter/auth"
	"goTwitter/errs"
)

// parseIDParam reads a numeric path parameter. Front-ends are known to
// interpolate the literal strings "undefined" and "null" into urls, those are
// rejected as missing, not as unknown resources.
func parseIDParam(r *http.Request, name string) (int, error) {
	raw, found := mux.Vars(r)[name]
	raw = strings.TrimSpace(raw)
	if !found || raw == "" || raw == "undefined" || raw == "null" {
		return 0, errs.Errorf(errs.EINVALID, "ID is required")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errs.Errorf(errs.EINVALID, "Invalid ID format")
	}
	return id, nil
}

// peekBody decodes the request body into v and restores it so the handler can
// read it again.
func peekBody(r *http.Request, v interface{}) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	r.Body = io.NopCloser(bytes.NewReader(data))
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Resource kinds the ownership check knows about.
const (
	ownUser  = "user"
	ownTweet = "tweet"
	ownLike  = "like"
)

// requireOwner permits the request only if the authenticated identity owns
// the targeted resource. How the owner is resolved depends on the resource
// kind: users own themselves, tweets and likes are owned by their author.
// Assumes requireAuth has already run.
func (s *Server) requireOwner(kind string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authed := auth.GetUser(r.Context())
		if authed == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Authentication token is required"))
			return
		}

		var ownerID int
		switch kind {
		case ownUser:
			id, err := parseIDParam(r, "id")
			if err != nil {
				errs.ReturnError(w, r, err)
				return
			}
			ownerID = id

		case ownTweet:
			if _, found := mux.Vars(r)["id"]; found {
				// Updating or deleting an existing tweet.
				id, err := parseIDParam(r, "id")
				if err != nil {
					errs.ReturnError(w, r, err)
					return
				}
				tweet, err := s.ts.ByID(id)
				if err != nil {
					errs.ReturnError(w, r, err)
					return
				}
				ownerID = tweet.UserID
			} else {
				// Creating a new tweet, the owner is the payload's author.
				var body struct {
					UserID int `json:"user_id"`
				}
				if err := peekBody(r, &body); err != nil {
					errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body"))
					return
				}
				ownerID = body.UserID
			}

		case ownLike:
			if _, found := mux.Vars(r)["id"]; found {
				// Unliking by like id.
				id, err := parseIDParam(r, "id")
				if err != nil {
					errs.ReturnError(w, r, err)
					return
				}
				like, err := s.ls.ByID(id)
				if err != nil {
					errs.ReturnError(w, r, err)
					return
				}
				ownerID = like.UserID
			} else if _, found := mux.Vars(r)["user_id"]; found {
				id, err := parseIDParam(r, "user_id")
				if err != nil {
					errs.ReturnError(w, r, err)
					return
				}
				ownerID = id
			} else {
				var body struct {
					UserID int `json:"user_id"`
				}
				if err := peekBody(r, &body); err != nil {
					errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body"))
					return
				}
				ownerID = body.UserID
			}

		default:
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid resource type"))
			return
		}

		if authed.ID != ownerID {
			errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "You are not authorized to perform this action"))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// requireSelfFollow permits follow actions only when the authenticated
// identity equals the payload's follower. You may only act as yourself.
// Assumes requireAuth has already run.
func (s *Server) requireSelfFollow(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authed := auth.GetUser(r.Context())
		if authed == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Authentication token is required"))
			return
		}

		var body struct {
			FollowerID int `json:"follower_id"`
		}
		if err := peekBody(r, &body); err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body"))
			return
		}
		if authed.ID != body.FollowerID {
			errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "You can only perform follow actions for your own account"))
			return
		}
		next.ServeHTTP(w, r)
	}
}
