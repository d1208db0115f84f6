package util

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNoActiveUser = errors.New("no active user, complete onboarding first")
	ErrGroupFull    = errors.New("group is full")
	ErrInvalidStep  = errors.New("content step out of range")
	ErrUnauthorized = errors.New("unauthorized")
	ErrSessionUser  = errors.New("session does not belong to the active user")

	ErrLessonNotFound    = fmt.Errorf("lesson %w", ErrNotFound)
	ErrChallengeNotFound = fmt.Errorf("challenge %w", ErrNotFound)
	ErrTaskNotFound      = fmt.Errorf("challenge task %w", ErrNotFound)
	ErrGroupNotFound     = fmt.Errorf("group %w", ErrNotFound)

	ErrKeyNotFound = fmt.Errorf("store key %w", ErrNotFound)
)
