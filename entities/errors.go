package entities

import (
	"errors"
	"fmt"
)

var (
	ErrKindRequired    = errors.New("entities: kind is required")
	ErrKindUnknown     = errors.New("entities: kind is not registered")
	ErrIDRequired      = errors.New("entities: entity id required")
	ErrSlugExists      = errors.New("entities: slug already exists")
	ErrSlugUnsupported = errors.New("entities: kind does not use slugs")
)

// NotFoundError represents a missing or soft-deleted entity.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// SlugConflictError reports the slug that collided at commit time.
type SlugConflictError struct {
	Kind string
	Slug string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("%s: kind=%s slug=%s", ErrSlugExists.Error(), e.Kind, e.Slug)
}

func (e *SlugConflictError) Unwrap() error {
	return ErrSlugExists
}
