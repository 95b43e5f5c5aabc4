package database

import (
	"errors"

	"gorm.io/gorm"

	"goTwitter/domain"
	"goTwitter/errs"
)

// MaxReplyDepth bounds how deep reply trees are materialized. Replies below
// the bound are omitted from the response, not an error.
const MaxReplyDepth = 50

var _ domain.FeedService = &FeedService{}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{
		feedGorm{
			db:       db,
			maxDepth: MaxReplyDepth,
		},
	}
}

// FeedService assembles personalized feeds. It implements the
// domain.FeedService interface.
type FeedService struct {
	feedGorm
}

type feedGorm struct {
	db       *gorm.DB
	maxDepth int
}

// Feed returns the feed for the given user: root tweets authored by the user
// or anyone they follow, newest first, each with its reply tree attached up
// to the configured maximum depth.
func (fg *feedGorm) Feed(userID int) ([]domain.Tweet, error) {
	if userID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "User ID is required to fetch feed")
	}

	// Resolve the follow set and form the target author set.
	var follows []domain.Follow
	err := fg.db.Where("follower_id = ?", userID).Find(&follows).Error
	if err != nil {
		return nil, err
	}
	authorIDs := make([]int, 0, len(follows)+1)
	authorIDs = append(authorIDs, userID)
	for _, follow := range follows {
		authorIDs = append(authorIDs, follow.FollowingID)
	}

	var roots []domain.Tweet
	err = fg.db.
		Where("parent_id IS NULL AND user_id IN ?", authorIDs).
		Order("created_at DESC").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}

	for i := range roots {
		if err := buildReplyTree(fg.db, &roots[i], 0, fg.maxDepth); err != nil {
			return nil, err
		}
	}
	return roots, nil
}

// buildReplyTree fills in a tweet's author projection, its likes with liker
// identity, its aggregate counts, and recursively its replies ordered oldest
// first. Recursion stops when no replies exist or maxDepth is reached; the
// reply count still reflects replies that were not materialized.
func buildReplyTree(db *gorm.DB, tweet *domain.Tweet, depth, maxDepth int) error {
	var author domain.User
	err := db.Select("id", "name", "username", "profile_image").
		First(&author, "id = ?", tweet.UserID).Error
	if err == nil {
		tweet.User = author.Public()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	err = db.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "username", "profile_image")
		}).
		Where("tweet_id = ?", tweet.ID).
		Find(&tweet.Likes).Error
	if err != nil {
		return err
	}
	tweet.LikeCount = len(tweet.Likes)

	var replyCount int64
	err = db.Model(&domain.Tweet{}).
		Where("parent_id = ?", tweet.ID).
		Count(&replyCount).Error
	if err != nil {
		return err
	}
	tweet.ReplyCount = int(replyCount)

	if depth >= maxDepth || replyCount == 0 {
		return nil
	}

	err = db.
		Where("parent_id = ?", tweet.ID).
		Order("created_at ASC").
		Find(&tweet.Replies).Error
	if err != nil {
		return err
	}
	for i := range tweet.Replies {
		if err := buildReplyTree(db, &tweet.Replies[i], depth+1, maxDepth); err != nil {
			return err
		}
	}
	return nil
}
