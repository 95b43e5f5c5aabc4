package domain

import "time"

// Tweet is a post. A Tweet with a ParentID is a reply to another tweet, the
// self-reference forms a tree rooted at parent-less tweets.
type Tweet struct {
	ID      int    `json:"id"`
	UserID  int    `json:"user_id" gorm:"notNull;index"`
	User    *User  `json:"user,omitempty"`
	Content string `json:"content"`

	ParentID *int    `json:"parent_id,omitempty" gorm:"index;default:null"`
	Replies  []Tweet `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
	Likes    []Like  `json:"likes,omitempty" gorm:"foreignKey:TweetID"`

	// Aggregate counts, assembled on reads that materialize the reply tree.
	LikeCount  int `json:"like_count" gorm:"-"`
	ReplyCount int `json:"reply_count" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TweetService is a set of methods to manipulate and work with the Tweet model.
type TweetService interface {
	// FindAll returns all root tweets, newest first, each with its reply tree.
	FindAll() ([]Tweet, error)
	ByID(id int) (*Tweet, error)
	Create(tweet *Tweet) error
	Update(tweet *Tweet) error
	Delete(id int) error
}

// FeedService assembles a user's personalized feed: root tweets authored by
// the user or anyone they follow, each with a bounded-depth reply tree.
type FeedService interface {
	Feed(userID int) ([]Tweet, error)
}
