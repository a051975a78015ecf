package alerts

import "github.com/wellbeing-project/wellctl/internal/api"

// Snapshot is the operator's pending-alerts list, materialized once from the
// full evaluation listing. It is not kept synchronized with the remote
// source: a successful resolution removes the item locally, and records
// resolved elsewhere stay visible until the next full fetch.
type Snapshot struct {
	items []api.Evaluation
}

// NewSnapshot keeps the evaluations that need attention: support threshold
// crossed and nobody has handled them yet.
func NewSnapshot(evals []api.Evaluation) *Snapshot {
	var pending []api.Evaluation
	for _, e := range evals {
		if e.NeedsSupport && e.HandledBy == nil {
			pending = append(pending, e)
		}
	}
	return &Snapshot{items: pending}
}

// Items returns the pending evaluations in listing order.
func (s *Snapshot) Items() []api.Evaluation {
	return s.items
}

// Len returns the number of pending evaluations.
func (s *Snapshot) Len() int {
	return len(s.items)
}

// Get returns the pending evaluation with the given id.
func (s *Snapshot) Get(id int) (api.Evaluation, bool) {
	for _, e := range s.items {
		if e.ID == id {
			return e, true
		}
	}
	return api.Evaluation{}, false
}

// Remove drops the evaluation with the given id from the snapshot. It
// reports whether an item was removed; a second call for the same id is a
// no-op.
func (s *Snapshot) Remove(id int) bool {
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}
