// Package upload applies translation batches against the backend with
// per-item failure isolation: every item is an independent write, a
// failed item is recorded and the batch continues. Batch upload is
// best-effort-all, never all-or-nothing.
package upload

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/crowdkit/crowdkit/crowdin"
)

// defaultWorkers bounds the per-item write fan-out.
const defaultWorkers = 4

// Backend is the slice of the Crowdin client the uploader consumes.
type Backend interface {
	AddTranslation(ctx context.Context, stringID int64, language, text string) (*crowdin.Ack, error)
}

// Item is one translation submission.
type Item struct {
	StringID int64  `json:"string_id"`
	Language string `json:"language_code"`
	Text     string `json:"translation"`
}

// Result is the outcome of one submitted item. Exactly one of Ack and
// Err is set. BatchID is shared by all results of one Batch call so
// retries and logs can be correlated.
type Result struct {
	OK       bool
	StringID int64
	Language string
	BatchID  string
	Ack      *crowdin.Ack
	Err      error
}

// Summary aggregates batch results for reporting.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summarize counts successes and failures in results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.OK {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// Uploader writes translation batches.
type Uploader struct {
	backend Backend
	workers int
}

// New creates an uploader over backend.
func New(backend Backend) *Uploader {
	return &Uploader{backend: backend, workers: defaultWorkers}
}

// SetWorkers overrides the per-item parallelism. n < 1 means sequential.
func (u *Uploader) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	u.workers = n
}

// Batch writes every item independently and returns results in input
// order, one per item. No item's failure aborts the batch; the returned
// slice is the complete outcome, partial failure included. There is no
// error return; whole-batch impossibility (e.g. an unreachable backend)
// shows up as every item failing with the same cause.
func (u *Uploader) Batch(ctx context.Context, items []Item) []Result {
	batchID := uuid.NewString()
	results := make([]Result, len(items))

	var wg sync.WaitGroup
	sem := make(chan struct{}, u.workers)
	for i, item := range items {
		wg.Add(1)
		go func(i int, item Item) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = u.one(ctx, batchID, item)
		}(i, item)
	}
	wg.Wait()

	return results
}

// one performs a single translation write.
func (u *Uploader) one(ctx context.Context, batchID string, item Item) Result {
	res := Result{
		StringID: item.StringID,
		Language: item.Language,
		BatchID:  batchID,
	}
	ack, err := u.backend.AddTranslation(ctx, item.StringID, item.Language, item.Text)
	if err != nil {
		res.Err = err
		return res
	}
	res.OK = true
	res.Ack = ack
	return res
}
