package rule

import (
	"time"

	"github.com/jamesainslie/renamer/pkg/renamer/datetime"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// DateTimeOptions configures the DateTime rule.
type DateTimeOptions struct {
	// Position is PositionBegin, PositionEnd or PositionReplace.
	Position Position

	// Selectors choose the date, time and combiner patterns.
	Selectors datetime.Selectors

	// Source is the primary timestamp source.
	Source datetime.Source

	// UseUppercaseAmPm renders the twelve-hour marker as "AM"/"PM".
	UseUppercaseAmPm bool

	// Explicit is the custom instant for datetime.SourceCustom and the
	// explicit fallback.
	Explicit *time.Time

	// Separator joins the rendered text to the proposed name.
	Separator string

	// UseFallback enables the fallback cascade.
	UseFallback bool

	// UseExplicitAsFallback falls back to Explicit rather than the earliest
	// known timestamp.
	UseExplicitAsFallback bool
}

// DefaultDateTimeOptions prefixes "20060102_150405_" using the filesystem
// creation time.
func DefaultDateTimeOptions() DateTimeOptions {
	return DateTimeOptions{
		Position:  PositionBegin,
		Selectors: datetime.DefaultSelectors(),
		Source:    datetime.SourceFSCreation,
		Separator: "_",
	}
}

// DateTime places a formatted timestamp in the proposed name.
type DateTime struct {
	opts     DateTimeOptions
	resolver *datetime.Resolver
}

var _ Rule = (*DateTime)(nil)

// NewDateTime creates a DateTime rule. The clock backs datetime.SourceCurrent
// and is read once per Apply; nil means the system clock.
func NewDateTime(opts DateTimeOptions, clock datetime.Clock) (*DateTime, error) {
	if err := checkPosition("datetime", opts.Position, PositionBegin, PositionEnd, PositionReplace); err != nil {
		return nil, err
	}
	return &DateTime{opts: opts, resolver: datetime.NewResolver(clock)}, nil
}

// Name returns "datetime".
func (r *DateTime) Name() string {
	return "datetime"
}

// Options returns the rule's configuration.
func (r *DateTime) Options() DateTimeOptions {
	return r.opts
}

// Render returns the text the rule would place for item, or "" when no
// timestamp resolves or the selectors render nothing.
func (r *DateTime) Render(item types.Item) string {
	instant := r.resolver.Resolve(item, datetime.ResolveOptions{
		Source:                r.opts.Source,
		Explicit:              r.opts.Explicit,
		UseFallback:           r.opts.UseFallback,
		UseExplicitAsFallback: r.opts.UseExplicitAsFallback,
	})
	if instant == nil {
		return ""
	}
	text := datetime.FormatDateTime(instant, r.opts.Selectors)
	return datetime.ApplyAmPmCase(text, r.opts.UseUppercaseAmPm)
}

// Apply places the rendered timestamp. The extension is never changed.
func (r *DateTime) Apply(item types.Item) types.Proposal {
	text := r.Render(item)
	if text == "" {
		return item.Proposed
	}
	return withName(item, place(item.Proposed.Name, text, r.opts.Separator, r.opts.Position))
}
