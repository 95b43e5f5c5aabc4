package domain

import "time"

// Follow represents a self-referential many-to-many relationship between two
// users. The FollowerID is the user that follows, the FollowingID is the user
// being followed. The relation is directed and asymmetric; at most one Follow
// exists per (follower, following) pair.
type Follow struct {
	ID          int   `json:"id"`
	FollowerID  int   `json:"follower_id" gorm:"notNull;uniqueIndex:idx_follows_pair"`
	Follower    *User `json:"follower,omitempty"`
	FollowingID int   `json:"following_id" gorm:"notNull;uniqueIndex:idx_follows_pair"`
	Following   *User `json:"following,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	FindAll() ([]Follow, error)
	Create(follow *Follow) error
	Delete(follow *Follow) error
}
