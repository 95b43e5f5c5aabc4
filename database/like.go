package database

import (
	"errors"

	"gorm.io/gorm"

	"goTwitter/domain"
	"goTwitter/errs"
)

var _ domain.LikeService = &LikeService{}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

type LikeService struct {
	likeValidator
}

type likeValidator struct {
	likeGorm
}

type likeGorm struct {
	db *gorm.DB
}

// Create runs validations needed for liking a tweet: the user and the tweet
// must exist and the pair must not be liked already.
func (lv *likeValidator) Create(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.likingUserExists,
		lv.likedTweetExists,
		lv.tweetNotYetLiked)
	if err != nil {
		return err
	}
	return lv.likeGorm.Create(like)
}

// Delete removes a like by its id. The like must exist.
func (lv *likeValidator) Delete(id int) error {
	if _, err := lv.likeGorm.ByID(id); err != nil {
		return err
	}
	return lv.likeGorm.Delete(id)
}

type likeValFn func(like *domain.Like) error

func runLikeValFns(like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(like); err != nil {
			return err
		}
	}
	return nil
}

func (lv *likeValidator) likingUserExists(like *domain.Like) error {
	var user domain.User
	err := lv.db.First(&user, "id = ?", like.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.EINVALID, "User not found")
		}
		return err
	}
	return nil
}

func (lv *likeValidator) likedTweetExists(like *domain.Like) error {
	var tweet domain.Tweet
	err := lv.db.First(&tweet, "id = ?", like.TweetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.EINVALID, "Tweet not found")
		}
		return err
	}
	return nil
}

func (lv *likeValidator) tweetNotYetLiked(like *domain.Like) error {
	var existing domain.Like
	err := lv.db.First(&existing, "user_id = ? AND tweet_id = ?", like.UserID, like.TweetID).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already liked this tweet")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (lg *likeGorm) ByID(id int) (*domain.Like, error) {
	var like domain.Like
	err := lg.db.First(&like, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Like not found")
		}
		return nil, err
	}
	return &like, nil
}

func (lg *likeGorm) Create(like *domain.Like) error {
	err := lg.db.Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The unique index resolved a race, the second writer loses.
		return errs.Errorf(errs.ECONFLICT, "You already liked this tweet")
	}
	return err
}

func (lg *likeGorm) Delete(id int) error {
	return lg.db.Delete(&domain.Like{}, id).Error
}
