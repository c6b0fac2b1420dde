package croql

import "testing"

// ---------------------------------------------------------------------------
// Untranslated
// ---------------------------------------------------------------------------

func TestUntranslated_NoExclusions(t *testing.T) {
	got := Untranslated(5, nil)
	want := "count of translations < 5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUntranslated_WithExcludedLabels(t *testing.T) {
	got := Untranslated(3, []string{"do-not-translate", "wip"})
	want := `count of translations < 3` +
		` and count of labels where (title = "do-not-translate") = 0` +
		` and count of labels where (title = "wip") = 0`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUntranslated_SingleLanguage(t *testing.T) {
	got := Untranslated(1, nil)
	if got != "count of translations < 1" {
		t.Fatalf("got %q", got)
	}
}

// ---------------------------------------------------------------------------
// TextEquals
// ---------------------------------------------------------------------------

func TestTextEquals(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "Hello", `text = "Hello"`},
		{"embedded quotes", `say "hi"`, `text = "say \"hi\""`},
		{"backslash", `path\to`, `text = "path\\to"`},
		{"backslash before quote", `\"`, `text = "\\\""`},
		{"empty", "", `text = ""`},
		{"unicode", "Привет", `text = "Привет"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextEquals(tt.text); got != tt.want {
				t.Errorf("TextEquals(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
