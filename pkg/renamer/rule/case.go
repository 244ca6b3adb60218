package rule

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// CaseMode selects the ChangeCase transformation.
type CaseMode int

const (
	// CaseUpper upper-cases every letter.
	CaseUpper CaseMode = iota
	// CaseLower lower-cases every letter.
	CaseLower
	// CaseTitle capitalizes each word.
	CaseTitle
	// CaseSentence lower-cases everything but the first letter.
	CaseSentence
	// CaseInvert swaps the case of every letter.
	CaseInvert
)

var caseModeNames = []string{"upper", "lower", "title", "sentence", "invert"}

// String returns the mode name.
func (m CaseMode) String() string {
	if m < 0 || int(m) >= len(caseModeNames) {
		return "unknown"
	}
	return caseModeNames[m]
}

// ParseCaseMode parses "upper", "lower", "title", "sentence" or "invert".
func ParseCaseMode(s string) (CaseMode, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for i, name := range caseModeNames {
		if name == n {
			return CaseMode(i), nil
		}
	}
	return CaseUpper, fmt.Errorf("%w: case %q", ErrInvalidMode, s)
}

// ChangeCase changes the letter case of the proposed name, and of the
// extension when IncludeExtension is set.
type ChangeCase struct {
	Mode             CaseMode
	IncludeExtension bool
}

// NewChangeCase creates a ChangeCase rule.
func NewChangeCase(mode CaseMode, includeExtension bool) (*ChangeCase, error) {
	if mode < 0 || int(mode) >= len(caseModeNames) {
		return nil, fmt.Errorf("%w: case %d", ErrInvalidMode, mode)
	}
	return &ChangeCase{Mode: mode, IncludeExtension: includeExtension}, nil
}

// Name returns "case".
func (r *ChangeCase) Name() string { return "case" }

// Apply converts the case.
func (r *ChangeCase) Apply(item types.Item) types.Proposal {
	p := types.Proposal{
		Name:      r.convert(item.Proposed.Name),
		Extension: item.Proposed.Extension,
	}
	if r.IncludeExtension {
		// Extensions stay lowercase under title and sentence case.
		switch r.Mode {
		case CaseTitle, CaseSentence:
			p.Extension = strings.ToLower(p.Extension)
		default:
			p.Extension = r.convert(p.Extension)
		}
	}
	return p
}

func (r *ChangeCase) convert(s string) string {
	switch r.Mode {
	case CaseLower:
		return strings.ToLower(s)
	case CaseTitle:
		// Casers keep state, so one is built per call.
		return cases.Title(language.Und).String(s)
	case CaseSentence:
		return sentenceCase(s)
	case CaseInvert:
		return strings.Map(invertRune, s)
	default:
		return strings.ToUpper(s)
	}
}

func sentenceCase(s string) string {
	lower := strings.ToLower(s)
	for i, r := range lower {
		if unicode.IsLetter(r) {
			return lower[:i] + string(unicode.ToUpper(r)) + lower[i+utf8.RuneLen(r):]
		}
	}
	return lower
}

func invertRune(r rune) rune {
	switch {
	case unicode.IsUpper(r):
		return unicode.ToLower(r)
	case unicode.IsLower(r):
		return unicode.ToUpper(r)
	default:
		return r
	}
}
