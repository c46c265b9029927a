package toast

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Kind selects the icon and styling of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

const (
	// DefaultDuration is how long a toast stays up unless the caller
	// says otherwise.
	DefaultDuration = 5 * time.Second
	// HealthCheckDuration is the longer default used for backend
	// health-check failures.
	HealthCheckDuration = 10 * time.Second

	// sweepInterval bounds how late an automatic removal can fire after
	// a toast's expiry.
	sweepInterval = 250 * time.Millisecond
)

// Toast is a transient, independently-timed user notice.
type Toast struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Queue holds the currently displayed toasts. Every toast carries its own
// expiry; removing one never affects the others. Removal — automatic or
// manual — is reported exactly once through the removal callback.
type Queue struct {
	items     *cache.Cache
	onAdded   func(Toast)
	onRemoved func(id string)
}

// NewQueue creates a queue. Both callbacks may be nil.
func NewQueue(onAdded func(Toast), onRemoved func(id string)) *Queue {
	items := cache.New(cache.NoExpiration, sweepInterval)
	q := &Queue{
		items:     items,
		onAdded:   onAdded,
		onRemoved: onRemoved,
	}
	// Fires on both janitor expiry and manual Delete, never twice for the
	// same item.
	items.OnEvicted(func(id string, _ interface{}) {
		if q.onRemoved != nil {
			q.onRemoved(id)
		}
	})
	return q
}

// Push enqueues a toast with its own removal timer. A zero duration selects
// DefaultDuration.
func (q *Queue) Push(kind Kind, message string, duration time.Duration) Toast {
	if duration <= 0 {
		duration = DefaultDuration
	}
	now := time.Now()
	t := Toast{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}
	q.items.Set(t.ID, t, duration)
	if q.onAdded != nil {
		q.onAdded(t)
	}
	return t
}

// Dismiss removes a toast immediately. Dismissing an unknown or already
// removed id is a silent no-op.
func (q *Queue) Dismiss(id string) {
	q.items.Delete(id)
}

// Active returns the toasts currently on display, oldest first.
func (q *Queue) Active() []Toast {
	items := q.items.Items()
	toasts := make([]Toast, 0, len(items))
	for _, item := range items {
		toasts = append(toasts, item.Object.(Toast))
	}
	sort.Slice(toasts, func(i, j int) bool {
		return toasts[i].CreatedAt.Before(toasts[j].CreatedAt)
	})
	return toasts
}
