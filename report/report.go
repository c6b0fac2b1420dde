// Package report renders engine output as markdown for the CLI and for
// agent consumption: completeness tables, per-string search detail,
// upload summaries, and label listings.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crowdkit/crowdkit/crowdin"
	"github.com/crowdkit/crowdkit/langmeta"
	"github.com/crowdkit/crowdkit/reconcile"
	"github.com/crowdkit/crowdkit/upload"
)

const (
	maxTextCell       = 50
	maxIdentifierCell = 30
	maxTranslationCol = 60
	maxFailuresShown  = 10
	maxIDsShown       = 10
)

// Untranslated renders the completeness report as a markdown table. The
// table is always present, with a placeholder row when every string is
// fully translated.
func Untranslated(r *reconcile.Report) string {
	var b strings.Builder
	b.WriteString("| ID | Text | Identifier | Missing Languages |\n")
	b.WriteString("|----|------|------------|-------------------|\n")

	if len(r.Candidates) == 0 {
		b.WriteString("| - | *All strings translated* | - | - |\n")
		return strings.TrimRight(b.String(), "\n")
	}

	for _, c := range r.Candidates {
		fmt.Fprintf(&b, "| %d | `%s` | `%s` | %s |\n",
			c.String.ID,
			truncate(c.String.Text, maxTextCell),
			truncate(c.String.Identifier, maxIdentifierCell),
			strings.Join(c.Missing, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// SearchDetail renders one reconciled string: its metadata, a
// per-language status table, and the missing-language summary.
func SearchDetail(st *reconcile.StringStatus, targetLanguages []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**String ID:** %d\n", st.String.ID)
	fmt.Fprintf(&b, "**Identifier:** `%s`\n", st.String.Identifier)
	fmt.Fprintf(&b, "**Source Text:** `%s`\n", st.String.Text)
	if st.String.Context != "" {
		fmt.Fprintf(&b, "**Context:** %s\n", st.String.Context)
	}
	if len(st.String.Labels) > 0 {
		fmt.Fprintf(&b, "**Labels:** %s\n", strings.Join(st.String.Labels, ", "))
	}
	fmt.Fprintf(&b, "\n**Translation Progress:** %d/%d languages\n\n",
		len(st.Existing), len(targetLanguages))

	b.WriteString("| Language | Status | Translation |\n")
	b.WriteString("|----------|--------|-------------|\n")
	for _, lang := range targetLanguages {
		if text, ok := st.Existing[lang]; ok {
			fmt.Fprintf(&b, "| %s | translated | %s |\n",
				langmeta.Display(lang), truncate(text, maxTranslationCol))
		} else {
			fmt.Fprintf(&b, "| %s | missing | - |\n", langmeta.Display(lang))
		}
	}

	b.WriteString("\n")
	if len(st.Missing) > 0 {
		fmt.Fprintf(&b, "**Missing languages:** %s", strings.Join(st.Missing, ", "))
	} else {
		b.WriteString("**Fully translated in all languages.**")
	}
	return b.String()
}

// UploadSummary renders batch upload results: totals, the first few
// failures in detail, and successes grouped by string.
func UploadSummary(results []upload.Result) string {
	s := upload.Summarize(results)

	var b strings.Builder
	b.WriteString("# Translation Upload Results\n\n")
	fmt.Fprintf(&b, "**Total translations:** %d\n", s.Total)
	fmt.Fprintf(&b, "**Successful:** %d\n", s.Succeeded)
	fmt.Fprintf(&b, "**Failed:** %d\n", s.Failed)
	if len(results) > 0 {
		fmt.Fprintf(&b, "**Batch ID:** %s\n", results[0].BatchID)
	}

	if s.Failed > 0 {
		b.WriteString("\n## Failed Translations\n\n")
		shown := 0
		for _, r := range results {
			if r.OK {
				continue
			}
			if shown == maxFailuresShown {
				fmt.Fprintf(&b, "- ... and %d more failures\n", s.Failed-maxFailuresShown)
				break
			}
			fmt.Fprintf(&b, "- **String ID %d** (%s): %v\n", r.StringID, r.Language, r.Err)
			shown++
		}
	}

	if s.Succeeded > 0 {
		b.WriteString("\n## Successfully Uploaded\n\n")
		byString := make(map[int64][]string)
		var order []int64
		for _, r := range results {
			if !r.OK {
				continue
			}
			if _, seen := byString[r.StringID]; !seen {
				order = append(order, r.StringID)
			}
			byString[r.StringID] = append(byString[r.StringID], r.Language)
		}
		sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
		for _, id := range order {
			fmt.Fprintf(&b, "- **String ID %d:** %s\n", id, strings.Join(byString[id], ", "))
		}
	}

	b.WriteString("\n")
	if s.Failed == 0 {
		b.WriteString("**Status:** all translations uploaded successfully")
	} else {
		b.WriteString("**Status:** some translations failed")
	}
	return b.String()
}

// Labels renders the project's labels as a markdown table.
func Labels(labels []crowdin.Label) string {
	if len(labels) == 0 {
		return "**No labels found in project.**"
	}

	var b strings.Builder
	b.WriteString("| ID | Label Name |\n")
	b.WriteString("|----|------------|\n")
	for _, l := range labels {
		fmt.Fprintf(&b, "| %d | %s |\n", l.ID, l.Title)
	}
	fmt.Fprintf(&b, "\n**Total labels:** %d", len(labels))
	return b.String()
}

// ProjectInfo renders the status view: project identity and the resolved
// target-language directory with display names.
func ProjectInfo(projectID int64, targetLanguages []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Project ID:** %d\n", projectID)
	fmt.Fprintf(&b, "**Target languages:** %d\n\n", len(targetLanguages))
	for _, lang := range targetLanguages {
		fmt.Fprintf(&b, "  %s\n", langmeta.Display(lang))
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncate shortens s to max runes, marking the cut with an ellipsis
// inside the budget.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
