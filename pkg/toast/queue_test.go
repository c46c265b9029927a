package toast

import (
	"sync"
	"testing"
	"time"
)

// removalRecorder collects removal callback invocations.
type removalRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *removalRecorder) record(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *removalRecorder) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.ids {
		if got == id {
			n++
		}
	}
	return n
}

func TestPushAssignsUniqueIDs(t *testing.T) {
	q := NewQueue(nil, nil)

	a := q.Push(KindSuccess, "first", time.Minute)
	b := q.Push(KindSuccess, "first", time.Minute)

	if a.ID == b.ID {
		t.Errorf("two pushes produced the same id %q", a.ID)
	}
	if len(q.Active()) != 2 {
		t.Errorf("Active() = %d toasts, want 2", len(q.Active()))
	}
}

func TestPushDefaultsDuration(t *testing.T) {
	q := NewQueue(nil, nil)

	tt := q.Push(KindError, "oops", 0)

	got := tt.ExpiresAt.Sub(tt.CreatedAt)
	if got != DefaultDuration {
		t.Errorf("zero duration expiry = %v, want %v", got, DefaultDuration)
	}
}

func TestAutomaticExpiry(t *testing.T) {
	rec := &removalRecorder{}
	q := NewQueue(nil, rec.record)

	tt := q.Push(KindWarning, "short lived", 100*time.Millisecond)

	// Janitor sweeps every 250ms; allow one full sweep of slack.
	time.Sleep(600 * time.Millisecond)

	if len(q.Active()) != 0 {
		t.Errorf("Active() after expiry = %d toasts, want 0", len(q.Active()))
	}
	if rec.count(tt.ID) != 1 {
		t.Errorf("removal callback fired %d times, want 1", rec.count(tt.ID))
	}
}

func TestIndependentTimers(t *testing.T) {
	q := NewQueue(nil, nil)

	short := q.Push(KindSuccess, "short", 100*time.Millisecond)
	long := q.Push(KindSuccess, "long", time.Minute)

	time.Sleep(600 * time.Millisecond)

	active := q.Active()
	if len(active) != 1 {
		t.Fatalf("Active() = %d toasts, want 1", len(active))
	}
	if active[0].ID != long.ID {
		t.Errorf("surviving toast = %q, want %q", active[0].ID, long.ID)
	}
	_ = short
}

func TestDismissIsIdempotent(t *testing.T) {
	rec := &removalRecorder{}
	q := NewQueue(nil, rec.record)

	tt := q.Push(KindError, "dismiss me", time.Minute)

	q.Dismiss(tt.ID)
	q.Dismiss(tt.ID)
	q.Dismiss("not-a-real-id")

	if len(q.Active()) != 0 {
		t.Errorf("Active() after dismiss = %d toasts, want 0", len(q.Active()))
	}
	if rec.count(tt.ID) != 1 {
		t.Errorf("removal callback fired %d times, want 1", rec.count(tt.ID))
	}
}

func TestDismissBeatsExpiry(t *testing.T) {
	rec := &removalRecorder{}
	q := NewQueue(nil, rec.record)

	tt := q.Push(KindError, "racing", 150*time.Millisecond)
	q.Dismiss(tt.ID)

	// Wait past the original expiry; the janitor must not report a second
	// removal for an already dismissed toast.
	time.Sleep(600 * time.Millisecond)

	if rec.count(tt.ID) != 1 {
		t.Errorf("removal callback fired %d times, want 1", rec.count(tt.ID))
	}
}

func TestAddedCallbackAndOrdering(t *testing.T) {
	var added []string
	var mu sync.Mutex
	q := NewQueue(func(tt Toast) {
		mu.Lock()
		added = append(added, tt.Message)
		mu.Unlock()
	}, nil)

	q.Push(KindSuccess, "one", time.Minute)
	time.Sleep(5 * time.Millisecond) // distinct CreatedAt for ordering
	q.Push(KindSuccess, "two", time.Minute)

	mu.Lock()
	defer mu.Unlock()
	if len(added) != 2 || added[0] != "one" || added[1] != "two" {
		t.Errorf("added callbacks = %v, want [one two]", added)
	}

	active := q.Active()
	if len(active) != 2 || active[0].Message != "one" || active[1].Message != "two" {
		t.Errorf("Active() order = %v, want oldest first", active)
	}
}
