package domain

import "errors"

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrEmptyUpdate      = errors.New("update carries no fields")
)
