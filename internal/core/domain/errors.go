package domain

import (
	"errors"
	"fmt"
)

// Error families. Specific errors wrap their family so callers can match
// either one with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrJournalNotFound  = fmt.Errorf("journal %w", ErrNotFound)
	ErrQuestionNotFound = fmt.Errorf("question %w", ErrNotFound)
	ErrSummaryNotFound  = fmt.Errorf("summary %w", ErrNotFound)
)

var (
	ErrScoreOutOfRange  = fmt.Errorf("%w: wellbeing score must be between %d and %d", ErrInvalidArgument, MinWellbeingScore, MaxWellbeingScore)
	ErrOptionOutOfRange = fmt.Errorf("%w: option index out of range", ErrInvalidArgument)
	ErrEmptyOptions     = fmt.Errorf("%w: a question needs at least one option", ErrInvalidArgument)
	ErrEmptyText        = fmt.Errorf("%w: text must not be empty", ErrInvalidArgument)
	ErrInvalidRole      = fmt.Errorf("%w: role must be worker, therapist or admin", ErrInvalidArgument)
)

// AI pipeline outcomes.
var (
	// ErrNoData means there is nothing to summarize. It is not a fault.
	ErrNoData               = errors.New("no data available")
	ErrInvalidModelResponse = errors.New("invalid model response")
	ErrExternalService      = errors.New("external service failure")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
)
