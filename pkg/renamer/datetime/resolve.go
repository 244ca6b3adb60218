package datetime

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// Source names where an item's timestamp comes from.
type Source int

// Timestamp sources.
const (
	// SourceFSCreation is the filesystem birth time.
	SourceFSCreation Source = iota
	// SourceFSModification is the filesystem modification time.
	SourceFSModification
	// SourceContentCreation is the creation instant from the metadata record.
	SourceContentCreation
	// SourceCurrent is the clock, read once per resolution.
	SourceCurrent
	// SourceCustom is the explicit instant supplied in ResolveOptions.
	SourceCustom
)

var sourceNames = []string{
	"FS_CREATION",
	"FS_MODIFICATION",
	"CONTENT_CREATION",
	"CURRENT",
	"CUSTOM",
}

// String returns the source name, e.g. "FS_CREATION".
func (s Source) String() string {
	if s < 0 || int(s) >= len(sourceNames) {
		return "UNKNOWN"
	}
	return sourceNames[s]
}

// ErrUnknownSource is returned when a source name is not recognized.
var ErrUnknownSource = errors.New("unknown date/time source")

// ParseSource parses a source name case-insensitively; dashes are accepted.
func ParseSource(name string) (Source, error) {
	n := normalizeName(name)
	for i, s := range sourceNames {
		if s == n {
			return Source(i), nil
		}
	}
	return SourceFSCreation, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// Sources returns every source in declaration order.
func Sources() []Source {
	return []Source{SourceFSCreation, SourceFSModification, SourceContentCreation, SourceCurrent, SourceCustom}
}

// Clock supplies the current time to the resolver.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the local wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// ResolveOptions configures which instant Resolve selects.
type ResolveOptions struct {
	// Source is the primary source.
	Source Source

	// Explicit is the custom instant, used by SourceCustom and by the
	// explicit fallback.
	Explicit *time.Time

	// UseFallback enables the fallback cascade when the primary is absent.
	UseFallback bool

	// UseExplicitAsFallback makes the cascade return Explicit instead of the
	// earliest known timestamp.
	UseExplicitAsFallback bool
}

// Resolver selects one timestamp for an item.
type Resolver struct {
	clock Clock
}

// NewResolver returns a Resolver reading the current time from clock.
// A nil clock means SystemClock.
func NewResolver(clock Clock) *Resolver {
	if clock == nil {
		clock = SystemClock
	}
	return &Resolver{clock: clock}
}

// Resolve returns the instant named by opts.Source, or nil when it is
// unavailable and the fallback cascade does not supply one.
//
// A present primary is returned unchanged and the cascade is never consulted.
// With the cascade enabled, an absent primary resolves to opts.Explicit when
// UseExplicitAsFallback is set, and otherwise to the earliest of the item's
// filesystem creation, filesystem modification and content creation times.
func (r *Resolver) Resolve(item types.Item, opts ResolveOptions) *time.Time {
	if primary := r.primary(item, opts); primary != nil {
		return primary
	}
	if !opts.UseFallback {
		return nil
	}
	if opts.UseExplicitAsFallback {
		return normalized(opts.Explicit)
	}
	return Earliest(item.FSCreation, item.FSModification, item.ContentCreation())
}

func (r *Resolver) primary(item types.Item, opts ResolveOptions) *time.Time {
	switch opts.Source {
	case SourceFSCreation:
		return normalized(item.FSCreation)
	case SourceFSModification:
		return normalized(item.FSModification)
	case SourceContentCreation:
		return normalized(item.ContentCreation())
	case SourceCurrent:
		now := Normalize(r.clock.Now())
		return &now
	case SourceCustom:
		return normalized(opts.Explicit)
	default:
		return nil
	}
}

// Earliest returns the strict minimum of the non-nil candidates, or nil if
// every candidate is nil. Candidates are compared by wall clock.
func Earliest(candidates ...*time.Time) *time.Time {
	var earliest *time.Time
	for _, c := range candidates {
		n := normalized(c)
		if n == nil {
			continue
		}
		if earliest == nil || n.Before(*earliest) {
			earliest = n
		}
	}
	return earliest
}

// normalized copies t so callers never share the item's pointer.
func normalized(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := Normalize(*t)
	return &n
}

// SourceNames lists the source names, lowercased with dashes, for help text.
func SourceNames() string {
	names := make([]string, len(sourceNames))
	for i, s := range sourceNames {
		names[i] = strings.ReplaceAll(strings.ToLower(s), "_", "-")
	}
	return strings.Join(names, ", ")
}
