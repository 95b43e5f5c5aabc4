package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"goTwitter/auth"
	"goTwitter/database"
	"goTwitter/domain"
)

// Server provides the http surface of the app: routing, request handling and
// middleware. It performs authentication and ownership authorization before
// handing things over to one of the database services.
type Server struct {
	router *mux.Router
	us     domain.UserService
	ts     domain.TweetService
	fs     domain.FollowService
	ls     domain.LikeService
	feed   domain.FeedService
	token  *auth.TokenService
}

// NewServer returns a new instance of the server, registers all routes and
// gives their handlers access to the services passed in.
func NewServer(services *database.Services, token *auth.TokenService) *Server {
	s := &Server{
		router: mux.NewRouter(),
		us:     services.User,
		ts:     services.Tweet,
		fs:     services.Follow,
		ls:     services.Like,
		feed:   services.Feed,
		token:  token,
	}

	s.registerAuthRoutes(s.router)
	s.registerUserRoutes(s.router)
	s.registerTweetRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerFollowRoutes(s.router)
	s.registerFeedRoutes(s.router)

	s.router.Use(setContentTypeJSON)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	addr := ":" + strconv.Itoa(port)
	logrus.WithField("addr", addr).Info("server listening")
	logrus.Fatal(http.ListenAndServe(addr, s.router))
}
