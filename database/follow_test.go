package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goTwitter/domain"
	"goTwitter/errs"
)

func TestFollowService_Create(t *testing.T) {
	db := testDB(t)
	us := NewUserService(db, "pepper")
	fs := NewFollowService(db)

	ann := createTestUser(t, us, "Ann", "ann", "a@x.com")
	bob := createTestUser(t, us, "Bob", "bob", "b@x.com")

	follow := &domain.Follow{FollowerID: ann.ID, FollowingID: bob.ID}
	require.NoError(t, fs.Create(follow))
	assert.NotZero(t, follow.ID)
	require.NotNil(t, follow.Following)
	assert.Equal(t, bob.ID, follow.Following.ID)

	// The reverse direction is a separate edge.
	require.NoError(t, fs.Create(&domain.Follow{FollowerID: bob.ID, FollowingID: ann.ID}))
}

func TestFollowService_Create_SelfFollow(t *testing.T) {
	db := testDB(t)
	us := NewUserService(db, "pepper")
	fs := NewFollowService(db)

	ann := createTestUser(t, us, "Ann", "ann", "a@x.com")

	err := fs.Create(&domain.Follow{FollowerID: ann.ID, FollowingID: ann.ID})
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	assert.Equal(t, "User cannot follow themselves", errs.ErrorMessage(err))
}

func TestFollowService_Create_Duplicate(t *testing.T) {
	db := testDB(t)
	us := NewUserService(db, "pepper")
	fs := NewFollowService(db)

	ann := createTestUser(t, us, "Ann", "ann", "a@x.com")
	bob := createTestUser(t, us, "Bob", "bob", "b@x.com")

	require.NoError(t, fs.Create(&domain.Follow{FollowerID: ann.ID, FollowingID: bob.ID}))

	err := fs.Create(&domain.Follow{FollowerID: ann.ID, FollowingID: bob.ID})
	require.Error(t, err)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
	assert.Equal(t, "You already follow this user", errs.ErrorMessage(err))
}

func TestFollowService_Create_MissingUsers(t *testing.T) {
	db := testDB(t)
	us := NewUserService(db, "pepper")
	fs := NewFollowService(db)

	ann := createTestUser(t, us, "Ann", "ann", "a@x.com")

	err := fs.Create(&domain.Follow{FollowerID: ann.ID, FollowingID: 9999})
	assert.Equal(t, "User not found", errs.ErrorMessage(err))

	err = fs.Create(&domain.Follow{FollowerID: 9999, FollowingID: ann.ID})
	assert.Equal(t, "User not found", errs.ErrorMessage(err))
}

func TestFollowService_Delete(t *testing.T) {
	db := testDB(t)
	us := NewUserService(db, "pepper")
	fs := NewFollowService(db)

	ann := createTestUser(t, us, "Ann", "ann", "a@x.com")
	bob := createTestUser(t, us, "Bob", "bob", "b@x.com")

	require.NoError(t, fs.Create(&domain.Follow{FollowerID: ann.ID, FollowingID: bob.ID}))
	require.NoError(t, fs.Delete(&domain.Follow{FollowerID: ann.ID, FollowingID: bob.ID}))

	follows, err := fs.FindAll()
	require.NoError(t, err)
	assert.Empty(t, follows)

	err = fs.Delete(&domain.Follow{FollowerID: ann.ID, FollowingID: bob.ID})
	require.Error(t, err)
	assert.Equal(t, "You do not follow this user", errs.ErrorMessage(err))
}
