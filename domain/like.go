package domain

import "time"

// Like represents a many-to-many relationship between a User and a Tweet.
// At most one Like exists per (user, tweet) pair, enforced by a composite
// unique index.
type Like struct {
	ID      int   `json:"id"`
	UserID  int   `json:"user_id" gorm:"notNull;uniqueIndex:idx_likes_user_tweet"`
	User    *User `json:"user,omitempty"`
	TweetID int   `json:"tweet_id" gorm:"notNull;uniqueIndex:idx_likes_user_tweet"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	ByID(id int) (*Like, error)
	Create(like *Like) error
	Delete(id int) error
}
