package classify

import "testing"

// ---------------------------------------------------------------------------
// Classify rule order
// ---------------------------------------------------------------------------

func TestClassify_LanguageNames(t *testing.T) {
	c := New(nil, nil)

	tests := []struct {
		text string
	}{
		{"English"},
		{"english"},
		{"  Français  "},
		{"中文"},
		{"Русский"},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.text, ""); got != LanguageName {
			t.Errorf("Classify(%q) = %v, want LanguageName", tt.text, got)
		}
	}
}

func TestClassify_LanguageNameBeatsTechnicalKey(t *testing.T) {
	c := New(nil, nil)

	// The key contains a technical hint, but the language-name rule
	// runs first.
	if got := c.Classify("English", "ui.language.id"); got != LanguageName {
		t.Fatalf("got %v, want LanguageName", got)
	}
}

func TestClassify_KnownNamesAndBrands(t *testing.T) {
	c := New([]string{"Steve Jobs"}, []string{"GitHub"})

	if got := c.Classify("Steve Jobs", ""); got != ProperName {
		t.Errorf("known name: got %v, want ProperName", got)
	}
	if got := c.Classify("GitHub", ""); got != Brand {
		t.Errorf("known brand: got %v, want Brand", got)
	}
	// Exact, case-sensitive matching only.
	if got := c.Classify("github", "save_to_disk"); got == Brand {
		t.Error("lowercase brand should not match the brand list")
	}
}

func TestClassify_CapitalizationHeuristic(t *testing.T) {
	c := New(nil, nil)

	tests := []struct {
		text string
		want Type
	}{
		{"John Q", ProperName},
		{"Ada Lovelace Smith", ProperName},
		// Known false positive: a short title-case phrase looks like a
		// name. Kept as-is.
		{"Good Morning", ProperName},
		{"Welcome to the app", Regular},
		{"hello world", Regular},
		{"Save all open files", Regular},
		{"save File", Regular},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.text, ""); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestClassify_EmptyTextIsProperName(t *testing.T) {
	c := New(nil, nil)

	// Zero words: the all-capitalized check is vacuously true.
	if got := c.Classify("", ""); got != ProperName {
		t.Fatalf("got %v, want ProperName", got)
	}
	if got := c.Classify("   ", ""); got != ProperName {
		t.Fatalf("whitespace only: got %v, want ProperName", got)
	}
}

func TestClassify_TechnicalKeyHints(t *testing.T) {
	c := New(nil, nil)

	tests := []struct {
		text string
		key  string
		want Type
	}{
		{"sk-12345 placeholder", "api_key_value", Technical},
		{"enter a value", "userApiKey", Technical},
		{"https://example.com", "homepage_url", Technical},
		{"enter a value", "session_uuid", Technical},
		{"enter a value", "greeting", Regular},
		{"enter a value", "", Regular},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.text, tt.key); got != tt.want {
			t.Errorf("Classify(%q, key=%q) = %v, want %v", tt.text, tt.key, got, tt.want)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := New([]string{"Steve Jobs"}, []string{"GitHub"})

	inputs := []struct{ text, key string }{
		{"English", ""},
		{"Good Morning", ""},
		{"hello world", "api_token"},
	}
	for _, in := range inputs {
		first := c.Classify(in.text, in.key)
		for i := 0; i < 10; i++ {
			if got := c.Classify(in.text, in.key); got != first {
				t.Fatalf("Classify(%q) unstable: %v then %v", in.text, first, got)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Policy
// ---------------------------------------------------------------------------

func TestPolicy(t *testing.T) {
	if !ShouldTranslate(Regular) {
		t.Error("Regular should be translated")
	}
	for _, typ := range []Type{LanguageName, ProperName, Brand, Technical} {
		if ShouldTranslate(typ) {
			t.Errorf("%v should not be translated by default", typ)
		}
	}
	if !NeedsConfirmation(LanguageName) {
		t.Error("LanguageName needs confirmation")
	}
	if NeedsConfirmation(ProperName) || NeedsConfirmation(Regular) {
		t.Error("only LanguageName needs confirmation")
	}
}

func TestAnnotate(t *testing.T) {
	c := New(nil, nil)

	ann := c.Annotate("English", "")
	if ann.Type != LanguageName || ann.Label != "language" {
		t.Fatalf("annotation = %+v", ann)
	}
	if ann.TranslateByDefault || !ann.NeedsConfirmation {
		t.Fatalf("policy = %+v", ann)
	}

	ann = c.Annotate("please save your work", "")
	if ann.Type != Regular || !ann.TranslateByDefault || ann.NeedsConfirmation {
		t.Fatalf("regular annotation = %+v", ann)
	}
}
