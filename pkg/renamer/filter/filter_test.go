package filter

import (
	"errors"
	"path"
	"slices"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC)

func file(p string, size int64, age time.Duration) Candidate {
	return Candidate{
		Path:    p,
		Name:    path.Base(p),
		Ext:     path.Ext(p),
		Size:    size,
		ModTime: fixedNow.Add(-age),
	}
}

func dir(p string) Candidate {
	c := file(p, 0, 0)
	c.Ext = ""
	c.IsDir = true
	return c
}

func TestNew(t *testing.T) {
	f := New()

	if !f.Files {
		t.Error("Files should be true by default")
	}
	if f.Dirs {
		t.Error("Dirs should be false by default")
	}
	if f.Hidden {
		t.Error("Hidden should be false by default")
	}
	if f.MinSize != 0 {
		t.Errorf("MinSize = %d, want 0", f.MinSize)
	}
	if len(f.Include) != 0 || len(f.Exclude) != 0 || len(f.Extensions) != 0 {
		t.Errorf("patterns and extensions should be empty, got %v %v %v", f.Include, f.Exclude, f.Extensions)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestWithMinSize(t *testing.T) {
	tests := []struct {
		name    string
		minSize int64
		want    int64
	}{
		{name: "positive", minSize: 1024, want: 1024},
		{name: "zero", minSize: 0, want: 0},
		{name: "negative becomes zero", minSize: -5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(WithMinSize(tt.minSize))
			if f.MinSize != tt.want {
				t.Errorf("MinSize = %d, want %d", f.MinSize, tt.want)
			}
		})
	}
}

func TestWithInclude_SkipsBlankPatterns(t *testing.T) {
	f := New(WithInclude("*.jpg", " ", ""), WithExclude("", "tmp*"))

	if !slices.Equal(f.Include, []string{"*.jpg"}) {
		t.Errorf("Include = %v, want [*.jpg]", f.Include)
	}
	if !slices.Equal(f.Exclude, []string{"tmp*"}) {
		t.Errorf("Exclude = %v, want [tmp*]", f.Exclude)
	}
}

func TestWithExtensions_Normalization(t *testing.T) {
	f := New(WithExtensions("JPG", ".Png", "", "heic"))

	want := []string{".jpg", ".png", ".heic"}
	if !slices.Equal(f.Extensions, want) {
		t.Errorf("Extensions = %v, want %v", f.Extensions, want)
	}
}

func TestWithTypeGroups(t *testing.T) {
	f := New(WithTypeGroups("audio"), WithExtensions("txt"))

	if !slices.Contains(f.Extensions, ".mp3") {
		t.Errorf("Extensions should contain .mp3, got %v", f.Extensions)
	}
	if !slices.Contains(f.Extensions, ".txt") {
		t.Errorf("Extensions should contain .txt, got %v", f.Extensions)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "valid", opts: []Option{WithInclude("*.{jpg,png}"), WithTypeGroups("Image")}},
		{name: "bad include", opts: []Option{WithInclude("[abc")}, wantErr: ErrInvalidPattern},
		{name: "bad exclude", opts: []Option{WithExclude("[abc")}, wantErr: ErrInvalidPattern},
		{name: "unclosed brace", opts: []Option{WithExclude("{a,b")}, wantErr: ErrInvalidPattern},
		{name: "stray closing brace", opts: []Option{WithInclude("a,b}.txt")}, wantErr: ErrInvalidPattern},
		{name: "escaped brace", opts: []Option{WithInclude(`\{draft.txt`)}},
		{name: "unknown group", opts: []Option{WithTypeGroups("code")}, wantErr: ErrUnknownTypeGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.opts...).Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	err := New(WithInclude("[x"), WithTypeGroups("nope")).Validate()

	if !errors.Is(err, ErrInvalidPattern) || !errors.Is(err, ErrUnknownTypeGroup) {
		t.Errorf("Validate() = %v, want both errors", err)
	}
}

func TestMatch_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		files bool
		dirs  bool
		c     Candidate
		want  bool
	}{
		{name: "file with files", files: true, c: file("/p/a.txt", 1, 0), want: true},
		{name: "dir with files only", files: true, c: dir("/p/sub"), want: false},
		{name: "dir with dirs", dirs: true, c: dir("/p/sub"), want: true},
		{name: "file with dirs only", dirs: true, c: file("/p/a.txt", 1, 0), want: false},
		{name: "both", files: true, dirs: true, c: dir("/p/sub"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(WithKinds(tt.files, tt.dirs))
			if got := f.Match(tt.c); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatch_Hidden(t *testing.T) {
	hidden := file("/p/.DS_Store", 10, 0)

	if New().Match(hidden) {
		t.Error("hidden file should be skipped by default")
	}
	if !New(WithHidden(true)).Match(hidden) {
		t.Error("hidden file should match with WithHidden(true)")
	}
}

func TestMatch_Extensions(t *testing.T) {
	f := New(WithExtensions("jpg", "png"), WithKinds(true, true))

	tests := []struct {
		c    Candidate
		want bool
	}{
		{c: file("/p/a.jpg", 1, 0), want: true},
		{c: file("/p/a.JPG", 1, 0), want: true},
		{c: file("/p/a.png", 1, 0), want: true},
		{c: file("/p/a.gif", 1, 0), want: false},
		{c: file("/p/README", 1, 0), want: false},
		{c: dir("/p/album.jpg"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.c.Name, func(t *testing.T) {
			if got := f.Match(tt.c); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.c.Path, got, tt.want)
			}
		})
	}
}

func TestMatch_MinSize(t *testing.T) {
	f := New(WithMinSize(100))

	if f.Match(file("/p/small.txt", 99, 0)) {
		t.Error("file below MinSize should not match")
	}
	if !f.Match(file("/p/exact.txt", 100, 0)) {
		t.Error("file at MinSize should match")
	}
}

func TestMatch_Age(t *testing.T) {
	clock := func() time.Time { return fixedNow }
	day := 24 * time.Hour
	week := Age{Days: 7}

	tests := []struct {
		name string
		opts []Option
		age  time.Duration
		want bool
	}{
		{name: "older than, old file", opts: []Option{WithOlderThan(week)}, age: 14 * day, want: true},
		{name: "older than, new file", opts: []Option{WithOlderThan(week)}, age: day, want: false},
		{name: "newer than, new file", opts: []Option{WithNewerThan(week)}, age: day, want: true},
		{name: "newer than, old file", opts: []Option{WithNewerThan(week)}, age: 30 * day, want: false},
		{name: "window", opts: []Option{WithOlderThan(Age{Days: 1}), WithNewerThan(week)}, age: 3 * day, want: true},
		{name: "newer than a month", opts: []Option{WithNewerThan(Age{Months: 1})}, age: 20 * day, want: true},
		{name: "older than a date", opts: []Option{WithOlderThan(Age{At: fixedNow.AddDate(0, 0, -10)})}, age: 11 * day, want: true},
		{name: "newer than a date", opts: []Option{WithNewerThan(Age{At: fixedNow.AddDate(0, 0, -10)})}, age: 11 * day, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(append(tt.opts, WithClock(clock))...)
			if got := f.Match(file("/p/a.txt", 1, tt.age)); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatch_Patterns(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		path    string
		want    bool
	}{
		{name: "no patterns", path: "/p/a.txt", want: true},
		{name: "include by name", include: []string{"IMG_*"}, path: "/p/IMG_0001.jpg", want: true},
		{name: "include miss", include: []string{"IMG_*"}, path: "/p/DSC_0001.jpg", want: false},
		{name: "include any", include: []string{"IMG_*", "DSC_*"}, path: "/p/DSC_0001.jpg", want: true},
		{name: "braces", include: []string{"*.{jpg,png}"}, path: "/p/a.png", want: true},
		{name: "exclude by name", exclude: []string{"*.tmp"}, path: "/p/a.tmp", want: false},
		{name: "exclude wins", include: []string{"*"}, exclude: []string{"draft*"}, path: "/p/draft1.md", want: false},
		{name: "full path pattern", include: []string{"/photos/**/*.jpg"}, path: "/photos/2024/june/a.jpg", want: true},
		{name: "full path miss", include: []string{"/photos/*.jpg"}, path: "/photos/2024/a.jpg", want: false},
		{name: "star does not cross dirs", exclude: []string{"/p/*"}, path: "/p/sub/a.txt", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(WithInclude(tt.include...), WithExclude(tt.exclude...))
			if got := f.Match(file(tt.path, 1, 0)); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestMatch_InvalidPatternIgnored(t *testing.T) {
	f := New(WithExclude("[broken", "*.tmp"))

	if !f.Match(file("/p/a.txt", 1, 0)) {
		t.Error("a.txt should match")
	}
	if f.Match(file("/p/a.tmp", 1, 0)) {
		t.Error("a.tmp should still be excluded by the valid pattern")
	}
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		dir  Candidate
		want bool
	}{
		{name: "plain dir", dir: dir("/p/sub"), want: false},
		{name: "hidden dir", dir: dir("/p/.git"), want: true},
		{name: "hidden allowed", opts: []Option{WithHidden(true)}, dir: dir("/p/.git"), want: false},
		{name: "excluded dir", opts: []Option{WithExclude("node_modules")}, dir: dir("/p/node_modules"), want: true},
		{name: "include does not prune", opts: []Option{WithInclude("*.jpg")}, dir: dir("/p/sub"), want: false},
		{name: "extensions do not prune", opts: []Option{WithExtensions("jpg")}, dir: dir("/p/sub"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.opts...).Prune(tt.dir); got != tt.want {
				t.Errorf("Prune() = %v, want %v", got, tt.want)
			}
		})
	}
}
