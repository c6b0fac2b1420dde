// Package labels manages project labels and their assignment to source
// strings. Labels drive workflow inclusion/exclusion, most importantly
// the "do-not-translate" marker honored by the completeness filter.
package labels

import (
	"context"
	"errors"
	"fmt"

	"github.com/crowdkit/crowdkit/crowdin"
)

// Backend is the slice of the Crowdin client the manager consumes.
type Backend interface {
	ListLabels(ctx context.Context) ([]crowdin.Label, error)
	CreateLabel(ctx context.Context, title string) (*crowdin.Label, error)
	AssignLabel(ctx context.Context, labelID int64, stringIDs []int64) error
	UnassignLabel(ctx context.Context, labelID int64, stringIDs []int64) error
}

// Manager provides label CRUD with get-or-create semantics.
type Manager struct {
	backend Backend
}

// New creates a manager over backend.
func New(backend Backend) *Manager {
	return &Manager{backend: backend}
}

// List returns all labels in the project.
func (m *Manager) List(ctx context.Context) ([]crowdin.Label, error) {
	return m.backend.ListLabels(ctx)
}

// Find returns the label with the given title, or crowdin.ErrNotFound.
func (m *Manager) Find(ctx context.Context, title string) (*crowdin.Label, error) {
	all, err := m.backend.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range all {
		if l.Title == title {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("label %q: %w", title, crowdin.ErrNotFound)
}

// GetOrCreate returns the label with the given title, creating it if
// absent. Creation is not atomic against concurrent creators: a
// duplicate-title conflict is taken as "someone else won the race" and
// resolved by listing again, so repeated calls with the same title are
// idempotent.
func (m *Manager) GetOrCreate(ctx context.Context, title string) (*crowdin.Label, error) {
	existing, err := m.Find(ctx, title)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	created, err := m.backend.CreateLabel(ctx, title)
	if err != nil {
		if crowdin.IsConflict(err) {
			return m.Find(ctx, title)
		}
		return nil, err
	}
	return created, nil
}

// Assign attaches the label to the given strings as a single bulk call.
func (m *Manager) Assign(ctx context.Context, labelID int64, stringIDs []int64) error {
	return m.backend.AssignLabel(ctx, labelID, stringIDs)
}

// Unassign detaches the label from the given strings as a single bulk
// call.
func (m *Manager) Unassign(ctx context.Context, labelID int64, stringIDs []int64) error {
	return m.backend.UnassignLabel(ctx, labelID, stringIDs)
}

func isNotFound(err error) bool {
	return errors.Is(err, crowdin.ErrNotFound)
}
