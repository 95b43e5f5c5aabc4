package database

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"goTwitter/domain"
	"goTwitter/errs"
)

var _ domain.TweetService = &TweetService{}

func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{
		tweetValidator{
			tweetGorm{
				db: db,
			},
		},
	}
}

type TweetService struct {
	tweetValidator
}

type tweetValidator struct {
	tweetGorm
}

type tweetGorm struct {
	db *gorm.DB
}

// Create runs validations needed for creating new Tweet database records.
// A tweet with a ParentID is a reply, its parent must exist.
func (tv *tweetValidator) Create(tweet *domain.Tweet) error {
	err := runTweetValFns(tweet,
		tv.contentRequired,
		tv.contentMaxLength,
		tv.authorExists,
		tv.parentTweetExists)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Create(tweet)
}

// Update changes a tweet's content. The tweet must exist and the new content
// must not be empty.
func (tv *tweetValidator) Update(tweet *domain.Tweet) error {
	err := runTweetValFns(tweet,
		tv.idValid,
		tv.tweetExists,
		tv.contentRequired,
		tv.contentMaxLength)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Update(tweet)
}

func (tv *tweetValidator) Delete(id int) error {
	tweet := domain.Tweet{ID: id}
	if err := runTweetValFns(&tweet, tv.idValid, tv.tweetExists); err != nil {
		return err
	}
	return tv.tweetGorm.Delete(id)
}

type tweetValFn = func(tweet *domain.Tweet) error

func runTweetValFns(tweet *domain.Tweet, fns ...tweetValFn) error {
	for _, fn := range fns {
		if err := fn(tweet); err != nil {
			return err
		}
	}
	return nil
}

func (tv *tweetValidator) idValid(tweet *domain.Tweet) error {
	if tweet.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Tweet ID is required")
	}
	return nil
}

func (tv *tweetValidator) contentRequired(tweet *domain.Tweet) error {
	if strings.TrimSpace(tweet.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Content is required")
	}
	return nil
}

func (tv *tweetValidator) contentMaxLength(tweet *domain.Tweet) error {
	if utf8.RuneCountInString(tweet.Content) > 280 {
		return errs.Errorf(errs.EINVALID, "Content must not have more than 280 characters")
	}
	return nil
}

func (tv *tweetValidator) authorExists(tweet *domain.Tweet) error {
	var user domain.User
	err := tv.db.First(&user, "id = ?", tweet.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.EINVALID, "User not found")
		}
		return err
	}
	return nil
}

func (tv *tweetValidator) parentTweetExists(tweet *domain.Tweet) error {
	if tweet.ParentID == nil {
		return nil
	}
	var parent domain.Tweet
	err := tv.db.First(&parent, "id = ?", *tweet.ParentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.EINVALID, "Parent tweet not found")
		}
		return err
	}
	return nil
}

func (tv *tweetValidator) tweetExists(tweet *domain.Tweet) error {
	existing, err := tv.tweetGorm.ByID(tweet.ID)
	if err != nil {
		return err
	}
	// Keep fields the update payload doesn't carry.
	tweet.UserID = existing.UserID
	tweet.ParentID = existing.ParentID
	tweet.CreatedAt = existing.CreatedAt
	return nil
}

// FindAll returns all root tweets, newest first, each with its recursively
// attached reply tree.
func (tg *tweetGorm) FindAll() ([]domain.Tweet, error) {
	var roots []domain.Tweet
	err := tg.db.
		Where("parent_id IS NULL").
		Order("created_at DESC").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}
	for i := range roots {
		if err := buildReplyTree(tg.db, &roots[i], 0, MaxReplyDepth); err != nil {
			return nil, err
		}
	}
	return roots, nil
}

func (tg *tweetGorm) ByID(id int) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := tg.db.First(&tweet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Tweet not found")
		}
		return nil, err
	}
	return &tweet, nil
}

func (tg *tweetGorm) Create(tweet *domain.Tweet) error {
	return tg.db.Create(tweet).Error
}

func (tg *tweetGorm) Update(tweet *domain.Tweet) error {
	return tg.db.Save(tweet).Error
}

// Delete removes a tweet and its likes in one transaction. Direct replies
// lose their parent reference and become root posts.
func (tg *tweetGorm) Delete(id int) error {
	return tg.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Tweet{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Tweet{}, id).Error
	})
}
