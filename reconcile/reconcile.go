// Package reconcile computes translation completeness: which target
// languages are missing a translation for which source strings.
//
// All state is re-derived from the backend on every pass; the only thing
// cached across calls is the project's target-language set (Directory).
// Per-language lookup failures degrade to "missing" rather than aborting
// the pass; the engine fails open toward "needs translation", never
// toward false completeness.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/crowdkit/crowdkit/croql"
	"github.com/crowdkit/crowdkit/crowdin"
)

// translationPageLimit bounds the per-language translation lookup. The
// first (most recent) entry is authoritative.
const translationPageLimit = 10

// defaultWorkers bounds the per-language lookup fan-out.
const defaultWorkers = 4

// Backend is the slice of the Crowdin client the reconciler consumes.
type Backend interface {
	ProjectLanguages(ctx context.Context) ([]string, error)
	SearchStrings(ctx context.Context, croql string, limit int) ([]crowdin.SourceString, error)
	StringTranslations(ctx context.Context, stringID int64, language string, limit int) ([]crowdin.Translation, error)
}

// ---------------------------------------------------------------------------
// Language directory
// ---------------------------------------------------------------------------

// Directory is the project's target-language set, fetched lazily and
// cached for the lifetime of the instance. A concurrent first call may
// fetch redundantly; the result is idempotent so the duplicate work is
// harmless. There is no invalidation: create a fresh Directory to
// re-resolve.
type Directory struct {
	backend Backend

	mu    sync.Mutex
	langs []string
}

// NewDirectory creates an unresolved directory over backend.
func NewDirectory(backend Backend) *Directory {
	return &Directory{backend: backend}
}

// Resolve returns the ordered target-language codes, fetching them on
// first use. Callers must not modify the returned slice.
func (d *Directory) Resolve(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	cached := d.langs
	d.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	langs, err := d.backend.ProjectLanguages(ctx)
	if err != nil {
		return nil, err
	}
	if langs == nil {
		langs = []string{}
	}

	d.mu.Lock()
	if d.langs == nil {
		d.langs = langs
	}
	cached = d.langs
	d.mu.Unlock()
	return cached, nil
}

// ---------------------------------------------------------------------------
// Reconciler
// ---------------------------------------------------------------------------

// StringStatus is the reconciled translation state of one source string.
// Existing maps language codes to their current translation text; Missing
// lists the remaining target languages in directory order. The two sets
// partition the target-language set.
type StringStatus struct {
	String   crowdin.SourceString
	Existing map[string]string
	Missing  []string
}

// Complete reports whether every target language has a translation.
func (s StringStatus) Complete() bool { return len(s.Missing) == 0 }

// Report is a completeness report over a set of candidate strings.
type Report struct {
	Candidates      []StringStatus
	TargetLanguages []string
	TotalCandidates int
}

// Reconciler computes completeness state against a backend.
type Reconciler struct {
	backend Backend
	dir     *Directory
	workers int
}

// New creates a reconciler sharing the given directory.
func New(backend Backend, dir *Directory) *Reconciler {
	return &Reconciler{backend: backend, dir: dir, workers: defaultWorkers}
}

// SetWorkers overrides the per-language lookup parallelism. n < 1 means
// sequential.
func (r *Reconciler) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	r.workers = n
}

// Untranslated finds up to limit strings with at least one missing
// translation, skipping strings carrying any of the excluded labels, and
// reconciles each one. An empty target-language set is a configuration
// error, not an empty result.
func (r *Reconciler) Untranslated(ctx context.Context, limit int, excludeLabels []string) (*Report, error) {
	langs, err := r.dir.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("get untranslated strings: %w", err)
	}
	if len(langs) == 0 {
		return nil, &crowdin.ConfigError{Reason: "project has no target languages"}
	}

	query := croql.Untranslated(len(langs), excludeLabels)
	strs, err := r.backend.SearchStrings(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get untranslated strings: %w", err)
	}

	report := &Report{
		TargetLanguages: langs,
		TotalCandidates: len(strs),
		Candidates:      make([]StringStatus, 0, len(strs)),
	}
	for _, s := range strs {
		existing := r.translations(ctx, s.ID, langs)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Candidates = append(report.Candidates, status(s, langs, existing))
	}
	return report, nil
}

// SearchByText finds one string by exact source text and reconciles it.
// Returns crowdin.ErrNotFound when no string matches.
func (r *Reconciler) SearchByText(ctx context.Context, text string) (*StringStatus, error) {
	strs, err := r.backend.SearchStrings(ctx, croql.TextEquals(text), 1)
	if err != nil {
		return nil, fmt.Errorf("search string: %w", err)
	}
	if len(strs) == 0 {
		return nil, fmt.Errorf("search string %q: %w", text, crowdin.ErrNotFound)
	}

	st, err := r.Reconcile(ctx, strs[0])
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Reconcile computes the translation state of a single known string ID.
func (r *Reconciler) Reconcile(ctx context.Context, s crowdin.SourceString) (StringStatus, error) {
	langs, err := r.dir.Resolve(ctx)
	if err != nil {
		return StringStatus{}, fmt.Errorf("reconcile string %d: %w", s.ID, err)
	}
	return status(s, langs, r.translations(ctx, s.ID, langs)), nil
}

// status assembles a StringStatus, deriving Missing from the directory
// order so existing ∪ missing always equals the full language set.
func status(s crowdin.SourceString, langs []string, existing map[string]string) StringStatus {
	missing := make([]string, 0, len(langs))
	for _, lang := range langs {
		if _, ok := existing[lang]; !ok {
			missing = append(missing, lang)
		}
	}
	return StringStatus{String: s, Existing: existing, Missing: missing}
}

// translations fetches the current translation text per language with a
// bounded worker fan-out. A failed or empty lookup leaves the language
// out of the map, which downstream treats as missing.
func (r *Reconciler) translations(ctx context.Context, stringID int64, langs []string) map[string]string {
	texts := make([]string, len(langs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.workers)
	for i, lang := range langs {
		wg.Add(1)
		go func(i int, lang string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			texts[i] = r.latestTranslation(ctx, stringID, lang)
		}(i, lang)
	}
	wg.Wait()

	existing := make(map[string]string)
	for i, lang := range langs {
		if texts[i] != "" {
			existing[lang] = texts[i]
		}
	}
	return existing
}

// latestTranslation returns the most recent non-empty translation text
// for one (string, language) pair, or "" if none exists or the lookup
// failed.
func (r *Reconciler) latestTranslation(ctx context.Context, stringID int64, lang string) string {
	ts, err := r.backend.StringTranslations(ctx, stringID, lang, translationPageLimit)
	if err != nil || len(ts) == 0 {
		return ""
	}
	if strings.TrimSpace(ts[0].Text) == "" {
		return ""
	}
	return ts[0].Text
}
