package model

import (
	"errors"
	"time"
)

// Follow is a directed edge: FollowerID follows FollowedID.
type Follow struct {
	FollowerID int64     `db:"follower_id"`
	FollowedID int64     `db:"followed_id"`
	CreatedAt  time.Time `db:"created_at"`
}

var (
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)
