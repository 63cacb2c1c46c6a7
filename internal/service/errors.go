package service

import "errors"

var (
	ErrUnauthenticated = errors.New("not signed in")
	ErrFollowSelf      = errors.New("cannot follow self")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidContent  = errors.New("invalid content")
	ErrHandleTaken     = errors.New("username unavailable")
)

// errAlreadyFollowing 仅用于在事务内触发回滚
var errAlreadyFollowing = errors.New("already following")
