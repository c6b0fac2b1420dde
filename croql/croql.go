// Package croql builds the small subset of CroQL query expressions the
// engine needs: completeness filtering with label exclusion, and exact
// source-text lookup. Expression building is pure string work; executing
// a query against the backend is the caller's job.
package croql

import (
	"fmt"
	"strings"
)

// Untranslated returns the expression selecting strings whose translation
// count is below the project's target-language total, i.e. strings with at
// least one missing language. For each excluded label name an additional
// clause requires that no attached label carries that title.
//
// totalLanguages must be positive; a zero-language project cannot have
// incomplete strings and must be rejected by the caller before building
// the query.
func Untranslated(totalLanguages int, excludeLabels []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "count of translations < %d", totalLanguages)
	for _, name := range excludeLabels {
		fmt.Fprintf(&b, " and count of labels where (title = %s) = 0", quote(name))
	}
	return b.String()
}

// TextEquals returns the expression matching a source string by exact
// text.
func TextEquals(text string) string {
	return "text = " + quote(text)
}

// quote wraps s in double quotes, escaping embedded quotes and
// backslashes.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
