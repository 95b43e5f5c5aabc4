package database

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"goTwitter/domain"
	"goTwitter/errs"
)

var _ domain.UserService = &UserService{}

// NewUserService returns an instance of UserService. The pepper is appended
// to every password before hashing.
func NewUserService(db *gorm.DB, pepper string) *UserService {
	return &UserService{
		userValidator{
			pepper:     pepper,
			emailRegex: regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,16}$`),
			userGorm: userGorm{
				db: db,
			},
		},
	}
}

// UserService manages Users. It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data. On success, it passes
// the data on to userGorm. Otherwise, it returns the error of the validation
// that has failed.
type userValidator struct {
	pepper     string
	emailRegex *regexp.Regexp
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated.
type userGorm struct {
	db *gorm.DB
}

// Create runs validations needed for creating new User database records.
// It hashes the password and clears the plaintext from memory.
func (uv *userValidator) Create(user *domain.User) error {
	err := runUserValFns(user,
		uv.nameRequired,
		uv.usernameNormalize,
		uv.usernameRequired,
		uv.usernameIsAvail,
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.emailIsAvail,
		uv.passwordRequired,
		uv.passwordMinLength,
		uv.passwordBcrypt,
		uv.passwordHashRequired)
	if err != nil {
		return err
	}
	return uv.userGorm.Create(user)
}

// Update runs validations needed for updating a User record in the database.
// It will hash a new password if one is provided (and will not complain if
// none is).
func (uv *userValidator) Update(user *domain.User) error {
	err := runUserValFns(user,
		uv.idValid,
		uv.userExists,
		uv.nameRequired,
		uv.usernameNormalize,
		uv.usernameRequired,
		uv.usernameIsAvail,
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.emailIsAvail,
		uv.passwordMinLength,
		uv.passwordBcrypt)
	if err != nil {
		return err
	}
	return uv.userGorm.Update(user)
}

// Delete checks the user exists, then removes the record together with
// everything it owns.
func (uv *userValidator) Delete(id int) error {
	user := domain.User{ID: id}
	if err := runUserValFns(&user, uv.idValid, uv.userExists); err != nil {
		return err
	}
	return uv.userGorm.Delete(id)
}

// A userValFn is any function that takes in a pointer to a domain.User object
// and returns an error.
type userValFn func(user *domain.User) error

// runUserValFns runs any number of functions of type userValFn on the passed
// in User object, stopping at the first error.
func runUserValFns(user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(user); err != nil {
			return err
		}
	}
	return nil
}

func (uv *userValidator) idValid(user *domain.User) error {
	if user.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "ID is required")
	}
	return nil
}

func (uv *userValidator) userExists(user *domain.User) error {
	_, err := uv.userGorm.ByID(user.ID)
	return err
}

func (uv *userValidator) nameRequired(user *domain.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return errs.Errorf(errs.EINVALID, "Name is required")
	}
	return nil
}

func (uv *userValidator) usernameNormalize(user *domain.User) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	return nil
}

func (uv *userValidator) usernameRequired(user *domain.User) error {
	if user.Username == "" {
		return errs.Errorf(errs.EINVALID, "Username is required")
	}
	return nil
}

// usernameIsAvail makes sure that a provided username is not yet taken.
func (uv *userValidator) usernameIsAvail(user *domain.User) error {
	existing, err := uv.userGorm.ByUsername(user.Username)
	if errs.ErrorCode(err) == errs.ENOTFOUND {
		return nil
	}
	if err != nil {
		return err
	}
	if user.ID != existing.ID {
		return errs.Errorf(errs.ECONFLICT, "Username is already taken")
	}
	return nil
}

func (uv *userValidator) emailNormalize(user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return nil
}

func (uv *userValidator) emailRequired(user *domain.User) error {
	if user.Email == "" {
		return errs.Errorf(errs.EINVALID, "Email is required")
	}
	return nil
}

// emailFormat makes sure that a provided email address matches a predefined
// regex pattern.
func (uv *userValidator) emailFormat(user *domain.User) error {
	if !uv.emailRegex.MatchString(user.Email) {
		return errs.Errorf(errs.EINVALID, "Email address is not valid")
	}
	return nil
}

// emailIsAvail makes sure that a provided email address is not yet taken.
func (uv *userValidator) emailIsAvail(user *domain.User) error {
	existing, err := uv.userGorm.ByEmail(user.Email)
	if errs.ErrorCode(err) == errs.ENOTFOUND {
		return nil
	}
	if err != nil {
		return err
	}
	if user.ID != existing.ID {
		return errs.Errorf(errs.ECONFLICT, "Email address is already taken")
	}
	return nil
}

func (uv *userValidator) passwordRequired(user *domain.User) error {
	if user.Password == "" {
		return errs.Errorf(errs.EINVALID, "Password is required")
	}
	return nil
}

func (uv *userValidator) passwordMinLength(user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	if len(user.Password) < 6 {
		return errs.Errorf(errs.EINVALID, "Password must be at least 6 characters long")
	}
	return nil
}

// passwordBcrypt hashes a user's password with a predefined pepper, if the
// Password field is not the empty string. It then clears the plaintext
// password on the user object in memory.
func (uv *userValidator) passwordBcrypt(user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(user.Password+uv.pepper), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedBytes)
	user.Password = ""
	return nil
}

func (uv *userValidator) passwordHashRequired(user *domain.User) error {
	if user.PasswordHash == "" {
		return errs.Errorf(errs.EINTERNAL, "password hash missing after validation")
	}
	return nil
}

// Authenticate checks a submitted password against the stored hash of the
// given user record.
func (uv *userValidator) Authenticate(user *domain.User, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password+uv.pepper))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return errs.Errorf(errs.EUNAUTHORIZED, "Invalid login credentials")
		}
		return err
	}
	return nil
}

func (ug *userGorm) FindAll() ([]domain.User, error) {
	var users []domain.User
	err := ug.db.Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (ug *userGorm) ByID(id int) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (ug *userGorm) ByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (ug *userGorm) ByUsername(username string) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

// Followers returns the users following the given user, joined through the
// follows table.
func (ug *userGorm) Followers(id int) ([]*domain.User, error) {
	var users []*domain.User
	err := ug.db.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", id).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Following returns the users the given user follows.
func (ug *userGorm) Following(id int) ([]*domain.User, error) {
	var users []*domain.User
	err := ug.db.
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", id).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (ug *userGorm) Create(user *domain.User) error {
	err := ug.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent writer won the unique index, surface it like the
		// validator would have.
		return errs.Errorf(errs.ECONFLICT, "Username or email address is already taken")
	}
	return err
}

func (ug *userGorm) Update(user *domain.User) error {
	err := ug.db.Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "Username or email address is already taken")
	}
	return err
}

// Delete removes a user and everything they own in one transaction: their
// likes, likes on their tweets, their tweets (replies to a removed tweet are
// promoted to root posts), and both directions of their follow edges.
func (ug *userGorm) Delete(id int) error {
	return ug.db.Transaction(func(tx *gorm.DB) error {
		ownTweets := tx.Model(&domain.Tweet{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("tweet_id IN (?)", ownTweets).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		ownTweets = tx.Model(&domain.Tweet{}).Select("id").Where("user_id = ?", id)
		if err := tx.Model(&domain.Tweet{}).
			Where("parent_id IN (?)", ownTweets).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Tweet{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&domain.Follow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, id).Error
	})
}
