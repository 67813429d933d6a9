package slugs

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	slug "github.com/goliatone/go-slug"
	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/pkg/interfaces"
	"github.com/google/uuid"
)

// DefaultMaxLength caps generated slugs to fit the schema column.
const DefaultMaxLength = 100

// DefaultSeed substitutes for candidates that normalize to nothing.
const DefaultSeed = "item"

const maxProbeAttempts = 1000

// ErrNamespaceExhausted is returned when suffix probing gives up. In
// practice this means the namespace check is misbehaving, not that a
// thousand siblings share the name.
var ErrNamespaceExhausted = errors.New("slugs: could not allocate a free slug")

// Namespace answers whether a slug is already taken within an entity
// namespace. excludeID skips the entity's own row on update.
type Namespace interface {
	SlugExists(ctx context.Context, namespace, slug string, excludeID uuid.UUID) (bool, error)
}

// Allocator derives URL-safe identifiers from human names and guarantees
// uniqueness within a namespace by numeric suffixing. The probe is
// best-effort under concurrent writers; the schema-level unique index is
// the final arbiter and surfaces as a conflict at commit time.
type Allocator struct {
	ns        Namespace
	maxLength int
	seed      string
	logger    interfaces.Logger
}

// Option configures the allocator.
type Option func(*Allocator)

// WithMaxLength overrides the slug length cap.
func WithMaxLength(maxLength int) Option {
	return func(a *Allocator) {
		if maxLength > 0 {
			a.maxLength = maxLength
		}
	}
}

// WithSeed overrides the substitute used for empty normalized candidates.
func WithSeed(seed string) Option {
	return func(a *Allocator) {
		if seed != "" {
			a.seed = seed
		}
	}
}

// WithLogger injects the allocator logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *Allocator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAllocator constructs an allocator probing the supplied namespace.
func NewAllocator(ns Namespace, opts ...Option) *Allocator {
	a := &Allocator{
		ns:        ns,
		maxLength: DefaultMaxLength,
		seed:      DefaultSeed,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate normalizes the candidate text and probes the namespace until a
// free slug is found, appending -2, -3, … on collision.
func (a *Allocator) Allocate(ctx context.Context, candidate, namespace string, excludeID uuid.UUID) (string, error) {
	base := a.Normalize(candidate)

	taken, err := a.ns.SlugExists(ctx, namespace, base, excludeID)
	if err != nil {
		return "", fmt.Errorf("slug probe: %w", err)
	}
	if !taken {
		return base, nil
	}

	for attempt := 2; attempt < maxProbeAttempts; attempt++ {
		probe := a.withSuffix(base, attempt)
		taken, err := a.ns.SlugExists(ctx, namespace, probe, excludeID)
		if err != nil {
			return "", fmt.Errorf("slug probe: %w", err)
		}
		if !taken {
			if attempt > 2 {
				a.logger.Debug("slug collision resolved", "namespace", namespace, "slug", probe)
			}
			return probe, nil
		}
	}
	return "", ErrNamespaceExhausted
}

// Normalize applies the slug rules without probing: diacritic stripping,
// lowercasing, hyphen collapsing, length cap, and the generic seed for
// candidates that normalize to nothing.
func (a *Allocator) Normalize(candidate string) string {
	normalized, err := slug.Normalize(candidate)
	if err != nil {
		normalized = ""
	}
	normalized = trimHyphens(clamp(normalized, a.maxLength))
	if normalized == "" {
		return a.seed
	}
	return normalized
}

// withSuffix appends -N, shortening the base so the result still fits the
// length cap.
func (a *Allocator) withSuffix(base string, n int) string {
	suffix := "-" + strconv.Itoa(n)
	room := a.maxLength - len(suffix)
	if room < 1 {
		room = 1
	}
	return trimHyphens(clamp(base, room)) + suffix
}

func clamp(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max]
}

func trimHyphens(value string) string {
	start := 0
	end := len(value)
	for start < end && value[start] == '-' {
		start++
	}
	for end > start && value[end-1] == '-' {
		end--
	}
	return value[start:end]
}
