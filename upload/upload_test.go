package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/crowdkit/crowdkit/crowdin"
)

// fakeBackend records writes and fails the string IDs listed in fail.
type fakeBackend struct {
	mu     sync.Mutex
	writes []int64
	fail   map[int64]error
	nextID int64
}

func (b *fakeBackend) AddTranslation(ctx context.Context, stringID int64, language, text string) (*crowdin.Ack, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail[stringID]; err != nil {
		return nil, err
	}
	b.writes = append(b.writes, stringID)
	b.nextID++
	return &crowdin.Ack{ID: b.nextID, StringID: stringID, Language: language, Text: text}, nil
}

// ---------------------------------------------------------------------------
// Batch
// ---------------------------------------------------------------------------

func TestBatch_AllSucceed(t *testing.T) {
	b := &fakeBackend{}
	u := New(b)

	items := []Item{
		{StringID: 1, Language: "de", Text: "Hallo"},
		{StringID: 2, Language: "fr", Text: "Bonjour"},
	}
	results := u.Batch(context.Background(), items)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if !r.OK {
			t.Errorf("results[%d] failed: %v", i, r.Err)
		}
		if r.StringID != items[i].StringID || r.Language != items[i].Language {
			t.Errorf("results[%d] = %+v, want item %+v in order", i, r, items[i])
		}
		if r.Ack == nil || r.Ack.Text != items[i].Text {
			t.Errorf("results[%d].Ack = %+v", i, r.Ack)
		}
	}
}

func TestBatch_PartialFailure(t *testing.T) {
	// The middle item fails; the batch still attempts every item and
	// reports all three outcomes in input order.
	cause := errors.New("string not found")
	b := &fakeBackend{fail: map[int64]error{2: cause}}
	u := New(b)

	items := []Item{
		{StringID: 1, Language: "de", Text: "a"},
		{StringID: 2, Language: "de", Text: "b"},
		{StringID: 3, Language: "de", Text: "c"},
	}
	results := u.Batch(context.Background(), items)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if !results[0].OK || !results[2].OK {
		t.Errorf("items 1 and 3 should succeed: %+v", results)
	}
	if results[1].OK || !errors.Is(results[1].Err, cause) {
		t.Errorf("results[1] = %+v, want failure with cause", results[1])
	}

	s := Summarize(results)
	if s.Total != 3 || s.Succeeded != 2 || s.Failed != 1 {
		t.Errorf("summary = %+v", s)
	}
}

func TestBatch_SharedBatchID(t *testing.T) {
	b := &fakeBackend{}
	u := New(b)

	results := u.Batch(context.Background(), []Item{
		{StringID: 1, Language: "de", Text: "a"},
		{StringID: 2, Language: "de", Text: "b"},
	})
	if results[0].BatchID == "" {
		t.Fatal("batch ID should be set")
	}
	if results[0].BatchID != results[1].BatchID {
		t.Errorf("batch IDs differ: %q vs %q", results[0].BatchID, results[1].BatchID)
	}

	again := u.Batch(context.Background(), []Item{{StringID: 3, Language: "de", Text: "c"}})
	if again[0].BatchID == results[0].BatchID {
		t.Error("separate batches should get distinct IDs")
	}
}

func TestBatch_OrderUnderParallelism(t *testing.T) {
	b := &fakeBackend{}
	u := New(b)
	u.SetWorkers(8)

	items := make([]Item, 50)
	for i := range items {
		items[i] = Item{StringID: int64(i + 1), Language: "de", Text: fmt.Sprintf("t%d", i)}
	}
	results := u.Batch(context.Background(), items)

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.StringID != items[i].StringID {
			t.Fatalf("results[%d].StringID = %d, want %d", i, r.StringID, items[i].StringID)
		}
	}
}

func TestBatch_Empty(t *testing.T) {
	u := New(&fakeBackend{})

	results := u.Batch(context.Background(), nil)
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
	s := Summarize(results)
	if s.Total != 0 || s.Succeeded != 0 || s.Failed != 0 {
		t.Errorf("summary = %+v", s)
	}
}
