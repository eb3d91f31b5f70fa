package cleanup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/hikersvoice/e2e/internal/errs"
)

// scriptedDeleter records deletion order and returns per-id scripted errors.
type scriptedDeleter struct {
	calls   []string // "kind/id" in call order
	outcome map[string]error
}

func newScriptedDeleter() *scriptedDeleter {
	return &scriptedDeleter{outcome: make(map[string]error)}
}

func (d *scriptedDeleter) fail(kind Kind, id string, err error) {
	d.outcome[string(kind)+"/"+id] = err
}

func (d *scriptedDeleter) Delete(ctx context.Context, kind Kind, id string) error {
	key := string(kind) + "/" + id
	d.calls = append(d.calls, key)
	return d.outcome[key]
}

func TestDrain_ReviewsBeforeParentKinds(t *testing.T) {
	t.Parallel()

	d := newScriptedDeleter()
	s := NewScope(d)
	// Interleave tracking order on purpose; drain order must not depend on it.
	s.Track(KindGuide, "g1")
	s.Track(KindReview, "r1")
	s.Track(KindCompany, "c1")
	s.Track(KindReview, "r2")

	res, err := s.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if res.Deleted != 4 {
		t.Fatalf("Deleted = %d, want 4", res.Deleted)
	}

	want := []string{"review/r1", "review/r2", "company/c1", "guide/g1"}
	if fmt.Sprint(d.calls) != fmt.Sprint(want) {
		t.Fatalf("deletion order = %v, want %v", d.calls, want)
	}
}

func TestDrain_NotFoundCountsAsSuccess(t *testing.T) {
	t.Parallel()

	d := newScriptedDeleter()
	d.fail(KindReview, "r1", errs.New(errs.NotFound, "review 404"))
	s := NewScope(d)
	s.Track(KindReview, "r1")
	s.Track(KindReview, "r2")

	res, err := s.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain must tolerate not-found, got: %v", err)
	}
	if res.Deleted != 1 || res.NotFound != 1 {
		t.Fatalf("res = %+v, want 1 deleted + 1 not-found", res)
	}
	if s.Len() != 0 {
		t.Fatalf("scope still tracks %d ids after clean drain", s.Len())
	}
}

func TestDrain_AttemptsAllAndAggregatesFailures(t *testing.T) {
	t.Parallel()

	d := newScriptedDeleter()
	d.fail(KindReview, "r1", errors.New("http 500"))
	d.fail(KindGuide, "g1", errors.New("http 502"))
	s := NewScope(d)
	s.Track(KindReview, "r1")
	s.Track(KindReview, "r2")
	s.Track(KindCompany, "c1")
	s.Track(KindGuide, "g1")

	res, err := s.Drain(context.Background())
	if err == nil {
		t.Fatal("expected aggregate teardown failure")
	}
	if len(d.calls) != 4 {
		t.Fatalf("attempted %d deletions, want all 4 despite failures", len(d.calls))
	}
	if len(res.Failures) != 2 {
		t.Fatalf("Failures = %v, want 2", res.Failures)
	}
	for _, name := range []string{"review/r1", "guide/g1"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("aggregate error should name %s: %v", name, err)
		}
	}
	if strings.Contains(err.Error(), "review/r2") {
		t.Errorf("aggregate error must not name successfully deleted ids: %v", err)
	}
}

func TestDrain_FailedIdsStayTrackedForRetry(t *testing.T) {
	t.Parallel()

	d := newScriptedDeleter()
	d.fail(KindCompany, "c1", errors.New("http 500"))
	s := NewScope(d)
	s.Track(KindCompany, "c1")
	s.Track(KindCompany, "c2")

	if _, err := s.Drain(context.Background()); err == nil {
		t.Fatal("expected failure on first drain")
	}
	if got := s.Tracked(KindCompany); len(got) != 1 || got[0] != "c1" {
		t.Fatalf("tracked after failed drain = %v, want [c1]", got)
	}

	// Backend recovered; retry only touches the failed id.
	d.outcome = map[string]error{}
	d.calls = nil
	res, err := s.Drain(context.Background())
	if err != nil {
		t.Fatalf("retried Drain failed: %v", err)
	}
	if res.Deleted != 1 || len(d.calls) != 1 {
		t.Fatalf("retry deleted %d via %v, want just c1", res.Deleted, d.calls)
	}
}

func TestDrain_CascadeScenario(t *testing.T) {
	t.Parallel()

	// r1 was cascade-deleted with its company, r2 still exists.
	d := newScriptedDeleter()
	d.fail(KindReview, "r1", errs.New(errs.NotFound, "gone"))
	s := NewScope(d)
	s.Track(KindReview, "r1")
	s.Track(KindReview, "r2")

	if _, err := s.Drain(context.Background()); err != nil {
		t.Fatalf("Drain raised despite only a not-found: %v", err)
	}
}

func TestTrack_DuplicatesDeletedIndependently(t *testing.T) {
	t.Parallel()

	d := newScriptedDeleter()
	s := NewScope(d)
	s.Track(KindReview, "r1")
	s.Track(KindReview, "r1")

	res, err := s.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if res.Deleted != 2 || len(d.calls) != 2 {
		t.Fatalf("duplicate id deleted %d times, want 2", len(d.calls))
	}
}

func TestTrack_EmptyIDIgnored(t *testing.T) {
	t.Parallel()

	s := NewScope(newScriptedDeleter())
	s.Track(KindGuide, "")
	s.Track(KindGuide, "  ")
	if s.Len() != 0 {
		t.Fatalf("empty ids tracked: %v", s.Tracked(KindGuide))
	}
}

func testDrain_PreservesInsertionOrderPerKind(t *rapid.T) {
	d := newScriptedDeleter()
	s := NewScope(d)

	kinds := []Kind{KindReview, KindCompany, KindGuide}
	perKind := make(map[Kind][]string)
	n := rapid.IntRange(1, 20).Draw(t, "n")
	for i := 0; i < n; i++ {
		kind := rapid.SampledFrom(kinds).Draw(t, "kind")
		id := fmt.Sprintf("id-%d", i)
		s.Track(kind, id)
		perKind[kind] = append(perKind[kind], id)
	}

	if _, err := s.Drain(context.Background()); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}

	var want []string
	for _, kind := range DrainOrder {
		for _, id := range perKind[kind] {
			want = append(want, string(kind)+"/"+id)
		}
	}
	if fmt.Sprint(d.calls) != fmt.Sprint(want) {
		t.Fatalf("deletion order = %v, want %v", d.calls, want)
	}
}

func TestDrain_PreservesInsertionOrderPerKind(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testDrain_PreservesInsertionOrderPerKind)
}
