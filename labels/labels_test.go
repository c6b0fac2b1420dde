package labels

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crowdkit/crowdkit/crowdin"
)

// fakeBackend simulates the label endpoints, including the duplicate-title
// conflict a concurrent creator would trigger.
type fakeBackend struct {
	labels      []crowdin.Label
	nextID      int64
	createErr   error
	createCalls int
	onCreate    func()
	assigned    map[int64][]int64
	unassigned  map[int64][]int64
}

func newFakeBackend(titles ...string) *fakeBackend {
	b := &fakeBackend{
		nextID:     1,
		assigned:   make(map[int64][]int64),
		unassigned: make(map[int64][]int64),
	}
	for _, title := range titles {
		b.labels = append(b.labels, crowdin.Label{ID: b.nextID, Title: title})
		b.nextID++
	}
	return b
}

func (b *fakeBackend) ListLabels(ctx context.Context) ([]crowdin.Label, error) {
	return b.labels, nil
}

func (b *fakeBackend) CreateLabel(ctx context.Context, title string) (*crowdin.Label, error) {
	b.createCalls++
	if b.onCreate != nil {
		b.onCreate()
	}
	if b.createErr != nil {
		return nil, b.createErr
	}
	l := crowdin.Label{ID: b.nextID, Title: title}
	b.nextID++
	b.labels = append(b.labels, l)
	return &l, nil
}

func (b *fakeBackend) AssignLabel(ctx context.Context, labelID int64, stringIDs []int64) error {
	b.assigned[labelID] = append(b.assigned[labelID], stringIDs...)
	return nil
}

func (b *fakeBackend) UnassignLabel(ctx context.Context, labelID int64, stringIDs []int64) error {
	b.unassigned[labelID] = append(b.unassigned[labelID], stringIDs...)
	return nil
}

// ---------------------------------------------------------------------------
// Find
// ---------------------------------------------------------------------------

func TestFind(t *testing.T) {
	m := New(newFakeBackend("ui", "do-not-translate"))

	l, err := m.Find(context.Background(), "do-not-translate")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if l.ID != 2 || l.Title != "do-not-translate" {
		t.Fatalf("label = %+v", l)
	}

	_, err = m.Find(context.Background(), "missing")
	if !errors.Is(err, crowdin.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// GetOrCreate
// ---------------------------------------------------------------------------

func TestGetOrCreate_Existing(t *testing.T) {
	b := newFakeBackend("ui")
	m := New(b)

	l, err := m.GetOrCreate(context.Background(), "ui")
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if l.ID != 1 {
		t.Fatalf("label = %+v", l)
	}
	if b.createCalls != 0 {
		t.Errorf("created %d labels, want 0", b.createCalls)
	}
}

func TestGetOrCreate_Creates(t *testing.T) {
	b := newFakeBackend()
	m := New(b)

	l, err := m.GetOrCreate(context.Background(), "wip")
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if l.Title != "wip" {
		t.Fatalf("label = %+v", l)
	}

	// Idempotent: a second call resolves the existing label.
	again, err := m.GetOrCreate(context.Background(), "wip")
	if err != nil {
		t.Fatalf("second GetOrCreate error: %v", err)
	}
	if again.ID != l.ID {
		t.Errorf("second call returned ID %d, want %d", again.ID, l.ID)
	}
	if b.createCalls != 1 {
		t.Errorf("created %d labels, want 1", b.createCalls)
	}
}

func TestGetOrCreate_ConflictResolvesByListing(t *testing.T) {
	// Another creator wins the race: the create fails with a 409, but
	// the label shows up on the follow-up listing.
	b := newFakeBackend()
	b.createErr = conflictError(t)
	b.onCreate = func() {
		b.labels = append(b.labels, crowdin.Label{ID: 99, Title: "wip"})
	}
	m := New(b)

	l, err := m.GetOrCreate(context.Background(), "wip")
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if l.ID != 99 {
		t.Fatalf("label = %+v, want the concurrently created one", l)
	}
}

// conflictError captures a real 409 through the client so GetOrCreate
// sees exactly the error shape production would.
func conflictError(t *testing.T) error {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"duplicate"}`, http.StatusConflict)
	}))
	defer srv.Close()

	_, err := crowdin.New(srv.URL, "tok", 1).CreateLabel(context.Background(), "wip")
	if !crowdin.IsConflict(err) {
		t.Fatalf("setup: expected conflict error, got %v", err)
	}
	return err
}

// ---------------------------------------------------------------------------
// Assign / Unassign
// ---------------------------------------------------------------------------

func TestAssignUnassign(t *testing.T) {
	b := newFakeBackend("ui")
	m := New(b)

	if err := m.Assign(context.Background(), 1, []int64{10, 11}); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	if got := b.assigned[1]; len(got) != 2 || got[0] != 10 || got[1] != 11 {
		t.Fatalf("assigned = %v", got)
	}

	if err := m.Unassign(context.Background(), 1, []int64{10}); err != nil {
		t.Fatalf("Unassign error: %v", err)
	}
	if got := b.unassigned[1]; len(got) != 1 || got[0] != 10 {
		t.Fatalf("unassigned = %v", got)
	}
}
