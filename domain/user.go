package domain

import "time"

// User represents a registered account. Username and Email are globally
// unique, enforced both by the validation layer and by unique indexes so
// concurrent writers are resolved by the store.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username" gorm:"notNull;uniqueIndex"`
	Email    string `json:"email" gorm:"notNull;uniqueIndex"`

	// Password only ever holds an incoming plaintext password. It is cleared
	// after hashing and never stored or serialized.
	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-"`

	ProfileImage string `json:"profile_image"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Followers and Following are filled in by the user service on profile
	// reads, not loaded as gorm associations.
	Followers []*User `json:"followers,omitempty" gorm:"-"`
	Following []*User `json:"following,omitempty" gorm:"-"`
}

// Public returns a projection of the user without the credential, suitable
// for embedding in responses and in the request context.
func (u *User) Public() *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	FindAll() ([]User, error)
	ByID(id int) (*User, error)
	ByEmail(email string) (*User, error)
	ByUsername(username string) (*User, error)
	Followers(id int) ([]*User, error)
	Following(id int) ([]*User, error)
	Create(user *User) error
	Update(user *User) error
	Delete(id int) error
	// Authenticate verifies a plaintext password against the user's stored
	// hash. It fails with the same uniform error a missing user produces.
	Authenticate(user *User, password string) error
}
