package translation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrParentIDRequired  = errors.New("translation: parent id required")
	ErrLocaleRequired    = errors.New("translation: locale is required")
	ErrUnsupportedLocale = errors.New("translation: unsupported locale")
	ErrEmptyChangeSet    = errors.New("translation: change set carries no fields")
	ErrLocaleConflict    = errors.New("translation: locale record already exists")
	ErrAutoTranslateFlag = errors.New("translation: auto translate flag is invalid")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ConflictError captures unique-constraint violations surfaced at commit
// time, distinguishable from other storage failures so callers can retry
// with different input.
type ConflictError struct {
	Resource string
	Key      string
	Err      error
}

func (e *ConflictError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s conflict", e.Resource)
	}
	return fmt.Sprintf("%s conflict on %q", e.Resource, e.Key)
}

func (e *ConflictError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrLocaleConflict
}

// UnsupportedLocaleError reports a locale outside the configured set.
type UnsupportedLocaleError struct {
	Locale    string
	Supported []string
}

func (e *UnsupportedLocaleError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedLocale.Error(), e.Locale)
}

func (e *UnsupportedLocaleError) Unwrap() error {
	return ErrUnsupportedLocale
}

// LocaleConflictError carries the composite key that collided.
type LocaleConflictError struct {
	ParentID uuid.UUID
	Locale   string
}

func (e *LocaleConflictError) Error() string {
	return fmt.Sprintf("%s: parent=%s locale=%s", ErrLocaleConflict.Error(), e.ParentID, e.Locale)
}

func (e *LocaleConflictError) Unwrap() error {
	return ErrLocaleConflict
}
