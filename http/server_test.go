package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"goTwitter/auth"
	"goTwitter/database"
	"goTwitter/domain"
)

// newTestServer wires a full server against a fresh in-memory database.
func newTestServer(t *testing.T) (*Server, *database.Services) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		domain.User{},
		domain.Tweet{},
		domain.Follow{},
		domain.Like{},
	))

	services, err := database.NewServices(
		db,
		database.WithUser("pepper"),
		database.WithTweet(),
		database.WithFollow(),
		database.WithLike(),
		database.WithFeed(),
	)
	require.NoError(t, err)

	tokens := auth.NewTokenService("test-secret", "HS256")
	return NewServer(services, tokens), services
}

// doJSON performs a request against the server and decodes the envelope.
func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var envelope map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func registerUser(t *testing.T, s *Server, name, username, email string) int {
	t.Helper()
	rec, envelope := doJSON(t, s, "POST", "/user", "", map[string]string{
		"name": name, "username": username, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	data := envelope["data"].(map[string]interface{})
	return int(data["id"].(float64))
}

func login(t *testing.T, s *Server, login string) string {
	t.Helper()
	rec, envelope := doJSON(t, s, "POST", "/login", "", map[string]string{
		"login": login, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestCreateUser(t *testing.T) {
	s, _ := newTestServer(t)

	rec, envelope := doJSON(t, s, "POST", "/user", "", map[string]string{
		"name": "Ann", "username": "ann", "email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, envelope["ok"])

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "ann", data["username"])
	_, hasPassword := data["password"]
	assert.False(t, hasPassword, "credential never leaves the server")

	// Same payload again conflicts.
	rec, envelope = doJSON(t, s, "POST", "/user", "", map[string]string{
		"name": "Ann", "username": "ann", "email": "a@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, envelope["ok"])
}

func TestLogin(t *testing.T) {
	s, _ := newTestServer(t)
	registerUser(t, s, "Ann", "ann", "a@x.com")

	// By username.
	rec, envelope := doJSON(t, s, "POST", "/login", "", map[string]string{
		"login": "ann", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "ann", user["username"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword)

	// By email.
	rec, _ = doJSON(t, s, "POST", "/login", "", map[string]string{
		"login": "a@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong password and unknown user surface identically.
	rec, envelope = doJSON(t, s, "POST", "/login", "", map[string]string{
		"login": "ann", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	wrongPasswordMsg := envelope["message"]

	rec, envelope = doJSON(t, s, "POST", "/login", "", map[string]string{
		"login": "ghost", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, wrongPasswordMsg, envelope["message"])

	// Missing fields.
	rec, _ = doJSON(t, s, "POST", "/login", "", map[string]string{"login": "ann"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	s, _ := newTestServer(t)
	id := registerUser(t, s, "Ann", "ann", "a@x.com")
	token := login(t, s, "ann")

	// No header.
	rec, envelope := doJSON(t, s, "GET", "/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication token is required", envelope["message"])

	// Garbage token.
	req := httptest.NewRequest("GET", "/feed", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)

	// Prefix is optional and case-insensitive.
	req = httptest.NewRequest("GET", "/feed", nil)
	req.Header.Set("Authorization", token)
	rec3 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec3, req)
	assert.Equal(t, http.StatusOK, rec3.Code)

	req = httptest.NewRequest("GET", "/feed", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec4 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec4, req)
	assert.Equal(t, http.StatusOK, rec4.Code)

	// Token for a user that no longer exists.
	rec5, _ := doJSON(t, s, "DELETE", "/user/"+itoa(id), token, nil)
	require.Equal(t, http.StatusOK, rec5.Code)
	rec6, envelope6 := doJSON(t, s, "GET", "/feed", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec6.Code)
	assert.Equal(t, "User not found", envelope6["message"])
}

func TestTweetOwnership(t *testing.T) {
	s, _ := newTestServer(t)
	annID := registerUser(t, s, "Ann", "ann", "a@x.com")
	registerUser(t, s, "Bob", "bob", "b@x.com")
	annToken := login(t, s, "ann")
	bobToken := login(t, s, "bob")

	// Ann tweets.
	rec, envelope := doJSON(t, s, "POST", "/tweet", annToken, map[string]interface{}{
		"user_id": annID, "content": "hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	tweetID := int(envelope["data"].(map[string]interface{})["id"].(float64))

	// Bob cannot update or delete it, even with a valid token.
	rec, envelope = doJSON(t, s, "PUT", "/tweet/"+itoa(tweetID), bobToken, map[string]string{
		"content": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You are not authorized to perform this action", envelope["message"])

	rec, _ = doJSON(t, s, "DELETE", "/tweet/"+itoa(tweetID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Bob cannot create a tweet in Ann's name either.
	rec, _ = doJSON(t, s, "POST", "/tweet", bobToken, map[string]interface{}{
		"user_id": annID, "content": "impersonation",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Ann can.
	rec, _ = doJSON(t, s, "PUT", "/tweet/"+itoa(tweetID), annToken, map[string]string{
		"content": "edited",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Missing tweet is a 404.
	rec, _ = doJSON(t, s, "DELETE", "/tweet/9999", annToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTweetValidation(t *testing.T) {
	s, _ := newTestServer(t)
	annID := registerUser(t, s, "Ann", "ann", "a@x.com")
	token := login(t, s, "ann")

	rec, envelope := doJSON(t, s, "POST", "/tweet", token, map[string]interface{}{
		"user_id": annID, "content": "",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Content is required", envelope["message"])
}

func TestUserOwnershipAndIDParam(t *testing.T) {
	s, _ := newTestServer(t)
	annID := registerUser(t, s, "Ann", "ann", "a@x.com")
	bobID := registerUser(t, s, "Bob", "bob", "b@x.com")
	annToken := login(t, s, "ann")

	// Ann cannot update Bob.
	rec, _ := doJSON(t, s, "PUT", "/user/"+itoa(bobID), annToken, map[string]string{"name": "X"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Front-end artifact ids are a 400, not a 404.
	rec, _ = doJSON(t, s, "PUT", "/user/undefined", annToken, map[string]string{"name": "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = doJSON(t, s, "DELETE", "/user/null", annToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Ann can update herself.
	rec, envelope := doJSON(t, s, "PUT", "/user/"+itoa(annID), annToken, map[string]string{"name": "Ann Updated"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ann Updated", envelope["data"].(map[string]interface{})["name"])
}

func TestGetUserWithFollowLists(t *testing.T) {
	s, _ := newTestServer(t)
	annID := registerUser(t, s, "Ann", "ann", "a@x.com")
	bobID := registerUser(t, s, "Bob", "bob", "b@x.com")
	annToken := login(t, s, "ann")
	bobToken := login(t, s, "bob")

	rec, _ := doJSON(t, s, "POST", "/follow", bobToken, map[string]int{
		"follower_id": bobID, "following_id": annID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, envelope := doJSON(t, s, "GET", "/user/"+itoa(annID), annToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]interface{})
	followers := data["followers"].([]interface{})
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].(map[string]interface{})["username"])
}

func TestLikeFlow(t *testing.T) {
	s, _ := newTestServer(t)
	annID := registerUser(t, s, "Ann", "ann", "a@x.com")
	bobID := registerUser(t, s, "Bob", "bob", "b@x.com")
	annToken := login(t, s, "ann")
	bobToken := login(t, s, "bob")

	rec, envelope := doJSON(t, s, "POST", "/tweet", annToken, map[string]interface{}{
		"user_id": annID, "content": "like me",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	tweetID := int(envelope["data"].(map[string]interface{})["id"].(float64))

	// Bob likes Ann's tweet.
	rec, envelope = doJSON(t, s, "POST", "/like/"+itoa(bobID)+"/"+itoa(tweetID), bobToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	likeID := int(envelope["data"].(map[string]interface{})["id"].(float64))

	// Liking twice fails.
	rec, envelope = doJSON(t, s, "POST", "/like/"+itoa(bobID)+"/"+itoa(tweetID), bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You already liked this tweet", envelope["message"])

	// Bob cannot like in Ann's name.
	rec, _ = doJSON(t, s, "POST", "/like/"+itoa(annID)+"/"+itoa(tweetID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Ann cannot remove Bob's like.
	rec, _ = doJSON(t, s, "DELETE", "/like/"+itoa(likeID), annToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Bob can.
	rec, _ = doJSON(t, s, "DELETE", "/like/"+itoa(likeID), bobToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The like is gone.
	rec, _ = doJSON(t, s, "DELETE", "/like/"+itoa(likeID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowFlow(t *testing.T) {
	s, _ := newTestServer(t)
	annID := registerUser(t, s, "Ann", "ann", "a@x.com")
	bobID := registerUser(t, s, "Bob", "bob", "b@x.com")
	annToken := login(t, s, "ann")

	// Acting as somebody else is forbidden.
	rec, envelope := doJSON(t, s, "POST", "/follow", annToken, map[string]int{
		"follower_id": bobID, "following_id": annID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only perform follow actions for your own account", envelope["message"])

	// Self-follow is rejected.
	rec, envelope = doJSON(t, s, "POST", "/follow", annToken, map[string]int{
		"follower_id": annID, "following_id": annID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User cannot follow themselves", envelope["message"])

	rec, _ = doJSON(t, s, "POST", "/follow", annToken, map[string]int{
		"follower_id": annID, "following_id": bobID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Following twice fails.
	rec, _ = doJSON(t, s, "POST", "/follow", annToken, map[string]int{
		"follower_id": annID, "following_id": bobID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The public follow list shows the edge.
	rec, envelope = doJSON(t, s, "GET", "/follows", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, envelope["data"].([]interface{}), 1)

	rec, _ = doJSON(t, s, "DELETE", "/unfollow", annToken, map[string]int{
		"follower_id": annID, "following_id": bobID,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFeed(t *testing.T) {
	s, _ := newTestServer(t)
	annID := registerUser(t, s, "Ann", "ann", "a@x.com")
	bobID := registerUser(t, s, "Bob", "bob", "b@x.com")
	catID := registerUser(t, s, "Cat", "cat", "c@x.com")
	annToken := login(t, s, "ann")
	bobToken := login(t, s, "bob")
	catToken := login(t, s, "cat")

	rec, _ := doJSON(t, s, "POST", "/follow", annToken, map[string]int{
		"follower_id": annID, "following_id": bobID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	doJSON(t, s, "POST", "/tweet", annToken, map[string]interface{}{"user_id": annID, "content": "from ann"})
	doJSON(t, s, "POST", "/tweet", bobToken, map[string]interface{}{"user_id": bobID, "content": "from bob"})
	doJSON(t, s, "POST", "/tweet", catToken, map[string]interface{}{"user_id": catID, "content": "from cat"})

	rec, envelope := doJSON(t, s, "GET", "/feed", annToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := envelope["data"].([]interface{})
	require.Len(t, feed, 2, "cat is not followed")
	for _, item := range feed {
		content := item.(map[string]interface{})["content"]
		assert.NotEqual(t, "from cat", content)
	}
}

func TestPublicEndpoints(t *testing.T) {
	s, _ := newTestServer(t)
	registerUser(t, s, "Ann", "ann", "a@x.com")

	rec, envelope := doJSON(t, s, "GET", "/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := envelope["data"].([]interface{})
	require.Len(t, users, 1)
	_, hasPassword := users[0].(map[string]interface{})["password"]
	assert.False(t, hasPassword)

	rec, _ = doJSON(t, s, "GET", "/tweets", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
