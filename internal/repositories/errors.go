package repositories

import "errors"

var (
	ErrNotFound             = errors.New("record not found")
	ErrSubmissionNotPending = errors.New("submission is not pending")
)
