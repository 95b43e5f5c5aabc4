package database

import (
	"errors"

	"gorm.io/gorm"

	"goTwitter/domain"
	"goTwitter/errs"
)

var _ domain.FollowService = &FollowService{}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

type FollowService struct {
	followValidator
}

type followValidator struct {
	followGorm
}

type followGorm struct {
	db *gorm.DB
}

// Create runs validations needed for following a user: no self-follow, both
// users must exist, the pair must not exist yet.
func (fv *followValidator) Create(follow *domain.Follow) error {
	err := runFollowValFns(follow,
		fv.followingIsNotFollower,
		fv.followerExists,
		fv.followedUserExists,
		fv.notAlreadyFollowed)
	if err != nil {
		return err
	}
	return fv.followGorm.Create(follow)
}

// Delete removes a follow edge identified by its (follower, following) pair.
func (fv *followValidator) Delete(follow *domain.Follow) error {
	err := runFollowValFns(follow,
		fv.followingIsNotFollower,
		fv.followExists)
	if err != nil {
		return err
	}
	return fv.followGorm.Delete(follow)
}

type followValFn func(follow *domain.Follow) error

func runFollowValFns(follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(follow); err != nil {
			return err
		}
	}
	return nil
}

func (fv *followValidator) followingIsNotFollower(follow *domain.Follow) error {
	if follow.FollowerID == follow.FollowingID {
		return errs.Errorf(errs.EINVALID, "User cannot follow themselves")
	}
	return nil
}

func (fv *followValidator) followerExists(follow *domain.Follow) error {
	var user domain.User
	err := fv.db.First(&user, "id = ?", follow.FollowerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.EINVALID, "User not found")
		}
		return err
	}
	return nil
}

func (fv *followValidator) followedUserExists(follow *domain.Follow) error {
	var user domain.User
	err := fv.db.First(&user, "id = ?", follow.FollowingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.EINVALID, "User not found")
		}
		return err
	}
	return nil
}

func (fv *followValidator) notAlreadyFollowed(follow *domain.Follow) error {
	var existing domain.Follow
	err := fv.db.First(&existing, "follower_id = ? AND following_id = ?",
		follow.FollowerID, follow.FollowingID).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already follow this user")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (fv *followValidator) followExists(follow *domain.Follow) error {
	var existing domain.Follow
	err := fv.db.First(&existing, "follower_id = ? AND following_id = ?",
		follow.FollowerID, follow.FollowingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.EINVALID, "You do not follow this user")
		}
		return err
	}
	follow.ID = existing.ID
	follow.CreatedAt = existing.CreatedAt
	return nil
}

func (fg *followGorm) FindAll() ([]domain.Follow, error) {
	var follows []domain.Follow
	err := fg.db.Order("id ASC").Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}

func (fg *followGorm) Create(follow *domain.Follow) error {
	err := fg.db.Create(follow).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "You already follow this user")
	}
	if err != nil {
		return err
	}
	return fg.db.Preload("Follower").Preload("Following").First(follow).Error
}

func (fg *followGorm) Delete(follow *domain.Follow) error {
	return fg.db.
		Where("follower_id = ? AND following_id = ?", follow.FollowerID, follow.FollowingID).
		Delete(&domain.Follow{}).Error
}
