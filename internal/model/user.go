package model

import (
	"errors"
	"time"
)

// User represents a registered account.
type User struct {
	ID             int64     `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	PasswordHashed string    `db:"password_hashed"`
	ImageURL       string    `db:"image_url"`
	HeaderImageURL string    `db:"header_image_url"`
	Bio            *string   `db:"bio"`
	Location       *string   `db:"location"`
	CreatedAt      time.Time `db:"created_at"`
}

// SignupRequest carries the fields collected by the signup form.
type SignupRequest struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// ProfileUpdate carries the editable profile fields. Password is the current
// credential gating the update; it is never changed here.
type ProfileUpdate struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	Password       string
}

// Profile is a user together with the counts shown on their profile page.
type Profile struct {
	User           *User
	MessageCount   int
	FollowingCount int
	FollowerCount  int
	LikeCount      int
}

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is surfaced from the unique constraint on username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken is surfaced from the unique constraint on email.
	ErrEmailTaken = errors.New("email already taken")

	// ErrPasswordRequired is returned by signup, before any storage call,
	// when the password is empty.
	ErrPasswordRequired = errors.New("password is required")
)
