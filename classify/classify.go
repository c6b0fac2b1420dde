// Package classify decides the translation policy for a source string:
// translate it, keep it verbatim, or hand it to an operator for
// confirmation. Classification is pure and deterministic: no I/O, no
// state beyond the configured name/brand lists.
package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Type is the classification of a source string.
type Type int

const (
	// Regular text, translated automatically.
	Regular Type = iota
	// LanguageName is a natural-language name ("English", "Français");
	// usually kept as-is but needs operator confirmation.
	LanguageName
	// ProperName is a person or place name, kept verbatim.
	ProperName
	// Brand is a known brand or product name, kept verbatim.
	Brand
	// Technical is an identifier-like value (API keys, URLs, IDs), kept
	// verbatim.
	Technical
)

func (t Type) String() string {
	switch t {
	case Regular:
		return "regular"
	case LanguageName:
		return "language"
	case ProperName:
		return "name"
	case Brand:
		return "brand"
	case Technical:
		return "technical"
	default:
		return "unknown"
	}
}

// languageNames is the built-in set of natural-language names, matched
// case-insensitively against the whole trimmed string.
var languageNames = map[string]bool{
	"english": true, "spanish": true, "français": true, "french": true,
	"deutsch": true, "german": true, "italiano": true, "italian": true,
	"português": true, "portuguese": true, "中文": true, "chinese": true,
	"русский": true, "russian": true, "日本語": true, "japanese": true,
	"한국어": true, "korean": true, "العربية": true, "arabic": true,
	"עברית": true, "hebrew": true, "हिन्दी": true, "hindi": true,
}

// technicalKeyHints are substrings that mark a translation key as
// identifier-like.
var technicalKeyHints = []string{"api", "url", "key", "id", "uuid"}

// Classifier classifies strings against configured proper-name and brand
// lists. The zero value classifies with empty lists.
type Classifier struct {
	names  map[string]bool
	brands map[string]bool
}

// New creates a classifier with the given known proper names and brands.
// Both lists are matched case-sensitively and exactly.
func New(names, brands []string) *Classifier {
	c := &Classifier{
		names:  make(map[string]bool, len(names)),
		brands: make(map[string]bool, len(brands)),
	}
	for _, n := range names {
		c.names[n] = true
	}
	for _, b := range brands {
		c.brands[b] = true
	}
	return c
}

// Classify determines the type of text. key is the translation key, used
// only for the technical-identifier check. Rules apply in strict order:
// language name, known proper name, known brand, capitalization
// heuristic, technical key hint, regular.
//
// The capitalization heuristic (≤3 words, all starting uppercase) is a
// known source of false positives on short title-case sentences; that
// tradeoff is intentional and kept as-is.
func (c *Classifier) Classify(text, key string) Type {
	if languageNames[strings.ToLower(strings.TrimSpace(text))] {
		return LanguageName
	}

	if c.names[text] {
		return ProperName
	}

	if c.brands[text] {
		return Brand
	}

	// Vacuously true for empty text, mirroring the heuristic's original
	// "all tokens capitalized" formulation.
	words := strings.Fields(text)
	if len(words) <= 3 && allCapitalized(words) {
		return ProperName
	}

	if key != "" {
		lower := strings.ToLower(key)
		for _, hint := range technicalKeyHints {
			if strings.Contains(lower, hint) {
				return Technical
			}
		}
	}

	return Regular
}

// allCapitalized reports whether every word starts with an uppercase rune.
// A first rune with no case (digits, punctuation, ideographs) fails the
// check.
func allCapitalized(words []string) bool {
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// ShouldTranslate reports whether strings of type t are translated
// automatically.
func ShouldTranslate(t Type) bool { return t == Regular }

// NeedsConfirmation reports whether strings of type t must be confirmed
// by an operator before any action.
func NeedsConfirmation(t Type) bool { return t == LanguageName }

// Annotation is the consumer-facing classification record.
type Annotation struct {
	Type               Type   `json:"type"`
	Label              string `json:"label"`
	TranslateByDefault bool   `json:"translateByDefault"`
	NeedsConfirmation  bool   `json:"needsConfirmation"`
}

// Annotate classifies text and packages the policy decision.
func (c *Classifier) Annotate(text, key string) Annotation {
	t := c.Classify(text, key)
	return Annotation{
		Type:               t,
		Label:              t.String(),
		TranslateByDefault: ShouldTranslate(t),
		NeedsConfirmation:  NeedsConfirmation(t),
	}
}
