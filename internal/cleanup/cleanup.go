// Package cleanup tracks backend entities created during a test so that
// teardown can delete every one of them and fail the test loudly when it
// cannot. A passing test that leaves rows behind is a failing test: silent
// leaks accumulate across runs and poison every later assertion on review
// counts and ratings.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hikersvoice/e2e/internal/errs"
	"github.com/hikersvoice/e2e/internal/obs"
)

// Kind identifies the type of a tracked backend entity.
type Kind string

const (
	KindReview  Kind = "review"
	KindCompany Kind = "company"
	KindGuide   Kind = "guide"
)

// DrainOrder is the fixed kind-priority order for teardown: reviews go
// first because deleting a company or guide cascade-deletes its reviews,
// which would turn later explicit review deletions into not-found calls.
var DrainOrder = []Kind{KindReview, KindCompany, KindGuide}

// Deleter deletes one tracked entity on the backend. Implementations must
// return an errs.NotFound-coded error when the entity is already gone.
type Deleter interface {
	Delete(ctx context.Context, kind Kind, id string) error
}

// Failure records one entity that teardown could not delete.
type Failure struct {
	Kind Kind
	ID   string
	Err  error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.ID, f.Err)
}

// Result summarizes one Drain pass.
type Result struct {
	Deleted  int
	NotFound int // already gone, typically via cascade from a parent
	Failures []Failure
}

// Scope is the per-test collection of tracked entities. It is owned by
// exactly one test; the mutex only guards against accidental cross-use from
// a test's own helper goroutines, not cross-test sharing.
type Scope struct {
	id      string
	deleter Deleter

	mu      sync.Mutex
	tracked map[Kind][]string
}

// NewScope creates an empty scope draining through d.
func NewScope(d Deleter) *Scope {
	return &Scope{
		id:      uuid.NewString()[:8],
		deleter: d,
		tracked: make(map[Kind][]string),
	}
}

// ID returns the scope's short correlation id.
func (s *Scope) ID() string {
	return s.id
}

// Track appends id to the scope's list for kind. Duplicates are allowed and
// deleted independently; an empty id is dropped with a warning since there
// is nothing deletable behind it.
func (s *Scope) Track(kind Kind, id string) {
	if strings.TrimSpace(id) == "" {
		obs.Pkg("cleanup").Warn("ignoring empty tracked id", "scope_id", s.id, "kind", string(kind))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked[kind] = append(s.tracked[kind], id)
}

// Tracked returns a copy of the ids currently tracked for kind, in
// insertion order.
func (s *Scope) Tracked(kind Kind) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.tracked[kind]))
	copy(ids, s.tracked[kind])
	return ids
}

// Len returns the total number of tracked ids across all kinds.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ids := range s.tracked {
		n += len(ids)
	}
	return n
}

// Drain deletes every tracked entity, kinds in DrainOrder, ids in insertion
// order within a kind. It never stops at the first failure: every id gets
// its deletion attempt, then all failures come back as one aggregate error
// naming each kind/id. Successfully deleted (or already-gone) ids are
// discarded; failed ids stay tracked so a retried Drain only revisits them.
func (s *Scope) Drain(ctx context.Context) (Result, error) {
	log := obs.From(ctx).With("pkg", "cleanup", "scope_id", s.id)

	s.mu.Lock()
	snapshot := make(map[Kind][]string, len(s.tracked))
	for kind, ids := range s.tracked {
		snapshot[kind] = append([]string(nil), ids...)
	}
	s.mu.Unlock()

	var res Result
	remaining := make(map[Kind][]string)

	for _, kind := range DrainOrder {
		for _, id := range snapshot[kind] {
			err := s.deleter.Delete(ctx, kind, id)
			switch {
			case err == nil:
				res.Deleted++
				log.Debug("deleted tracked entity", "kind", string(kind), "id", id)
			case errs.IsNotFound(err):
				// Tolerated: a parent's cascade delete usually got here
				// first. Logged rather than failed so a tracking bug that
				// records ids which never existed still leaves a trace.
				res.NotFound++
				log.Warn("tracked entity already gone", "kind", string(kind), "id", id)
			default:
				res.Failures = append(res.Failures, Failure{Kind: kind, ID: id, Err: err})
				remaining[kind] = append(remaining[kind], id)
				log.Error("failed to delete tracked entity", "kind", string(kind), "id", id, "error", err)
			}
		}
	}

	s.mu.Lock()
	s.tracked = remaining
	s.mu.Unlock()

	if len(res.Failures) > 0 {
		return res, aggregateFailure(res.Failures)
	}
	return res, nil
}

func aggregateFailure(failures []Failure) error {
	parts := make([]error, 0, len(failures))
	names := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, fmt.Errorf("%s %s: %w", f.Kind, f.ID, f.Err))
		names = append(names, fmt.Sprintf("%s/%s", f.Kind, f.ID))
	}
	return errs.Wrap(errs.Internal,
		fmt.Sprintf("teardown failed for %d tracked entities (%s); manual backend cleanup required",
			len(failures), strings.Join(names, ", ")),
		errors.Join(parts...))
}
