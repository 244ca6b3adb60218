package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

func ts(year int, month time.Month, day, hour int) *time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestResolve(t *testing.T) {
	created := ts(2021, 3, 1, 10)
	modified := ts(2022, 4, 2, 11)
	content := ts(2020, 1, 5, 9)
	explicit := ts(1999, 12, 31, 23)
	now := time.Date(2024, 6, 8, 15, 30, 45, 123, time.Local)

	full := types.Item{
		FSCreation:     created,
		FSModification: modified,
		Metadata:       &types.Metadata{CreationInstant: content},
	}
	bare := types.Item{FSModification: modified}

	tests := []struct {
		name string
		item types.Item
		opts ResolveOptions
		want *time.Time
	}{
		{
			name: "fs creation",
			item: full,
			opts: ResolveOptions{Source: SourceFSCreation},
			want: created,
		},
		{
			name: "fs modification",
			item: full,
			opts: ResolveOptions{Source: SourceFSModification},
			want: modified,
		},
		{
			name: "content creation",
			item: full,
			opts: ResolveOptions{Source: SourceContentCreation},
			want: content,
		},
		{
			name: "custom",
			item: full,
			opts: ResolveOptions{Source: SourceCustom, Explicit: explicit},
			want: explicit,
		},
		{
			name: "present primary never consults fallback",
			item: full,
			opts: ResolveOptions{Source: SourceFSModification, UseFallback: true, UseExplicitAsFallback: true, Explicit: explicit},
			want: modified,
		},
		{
			name: "absent primary without fallback",
			item: bare,
			opts: ResolveOptions{Source: SourceContentCreation},
			want: nil,
		},
		{
			name: "absent primary falls back to earliest",
			item: types.Item{FSCreation: created, FSModification: modified},
			opts: ResolveOptions{Source: SourceContentCreation, UseFallback: true},
			want: created,
		},
		{
			name: "fallback earliest includes content creation",
			item: types.Item{FSModification: modified, Metadata: &types.Metadata{CreationInstant: content}},
			opts: ResolveOptions{Source: SourceFSCreation, UseFallback: true},
			want: content,
		},
		{
			name: "absent primary falls back to explicit",
			item: bare,
			opts: ResolveOptions{Source: SourceContentCreation, UseFallback: true, UseExplicitAsFallback: true, Explicit: explicit},
			want: explicit,
		},
		{
			name: "explicit fallback without explicit instant",
			item: bare,
			opts: ResolveOptions{Source: SourceContentCreation, UseFallback: true, UseExplicitAsFallback: true},
			want: nil,
		},
		{
			name: "custom without explicit and no fallback",
			item: full,
			opts: ResolveOptions{Source: SourceCustom},
			want: nil,
		},
		{
			name: "nothing known",
			item: types.Item{},
			opts: ResolveOptions{Source: SourceFSCreation, UseFallback: true},
			want: nil,
		},
	}

	r := NewResolver(FixedClock(now))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.item, tt.opts)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestResolve_CurrentUsesClock(t *testing.T) {
	zone := time.FixedZone("", 2*3600)
	now := time.Date(2024, 6, 8, 15, 30, 45, 500_000_000, zone)

	got := NewResolver(FixedClock(now)).Resolve(types.Item{}, ResolveOptions{Source: SourceCurrent})
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 6, 8, 15, 30, 45, 0, time.UTC), *got)
}

func TestResolve_DoesNotAliasItem(t *testing.T) {
	item := types.Item{FSCreation: ts(2021, 3, 1, 10)}

	got := NewResolver(nil).Resolve(item, ResolveOptions{Source: SourceFSCreation})
	require.NotNil(t, got)
	*got = got.Add(time.Hour)

	assert.Equal(t, 10, item.FSCreation.Hour())
}

func TestEarliest(t *testing.T) {
	assert.Nil(t, Earliest())
	assert.Nil(t, Earliest(nil, nil))

	a := ts(2021, 3, 1, 10)
	b := ts(2020, 3, 1, 10)
	got := Earliest(nil, a, b)
	require.NotNil(t, got)
	assert.Equal(t, *b, *got)

	// Wall clock decides, not the absolute instant.
	east := time.Date(2021, 3, 1, 9, 0, 0, 0, time.FixedZone("", 5*3600))
	got = Earliest(a, &east)
	require.NotNil(t, got)
	assert.Equal(t, 9, got.Hour())
}

func TestParseSource(t *testing.T) {
	for _, s := range Sources() {
		got, err := ParseSource(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseSource("content-creation")
	require.NoError(t, err)
	assert.Equal(t, SourceContentCreation, got)

	_, err = ParseSource("exif")
	assert.ErrorIs(t, err, ErrUnknownSource)

	assert.Contains(t, SourceNames(), "fs-modification")
}
