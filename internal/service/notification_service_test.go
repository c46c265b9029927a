package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"legal-docchat-be/internal/pkg/logger"
	"legal-docchat-be/pkg/events"
	"legal-docchat-be/pkg/toast"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDelivery records broadcast payloads in place of the WebSocket hub.
type fakeDelivery struct {
	mu       sync.Mutex
	payloads []map[string]interface{}
}

func (d *fakeDelivery) Broadcast(payload interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m, ok := payload.(map[string]interface{}); ok {
		d.payloads = append(d.payloads, m)
	}
}

func (d *fakeDelivery) ofType(kind string) []map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []map[string]interface{}
	for _, p := range d.payloads {
		if p["type"] == kind {
			out = append(out, p)
		}
	}
	return out
}

func newTestNotification(t *testing.T) (*NotificationService, IPublisherService, *fakeDelivery) {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	delivery := &fakeDelivery{}
	svc := NewNotificationService(pubSub, delivery, logger.Nop(), 0)
	require.NoError(t, svc.Start(context.Background()))
	publisher := NewPublisherService(pubSub, nil)
	return svc, publisher, delivery
}

func waitForToasts(t *testing.T, svc *NotificationService, n int) []toast.Toast {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if active := svc.Active(); len(active) >= n {
			return active
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d toasts, have %d", n, len(svc.Active()))
	return nil
}

func TestUploadCompletedProducesSuccessToast(t *testing.T) {
	svc, publisher, delivery := newTestNotification(t)

	err := publisher.Publish(context.Background(), events.New(events.TypeUploadCompleted, map[string]interface{}{
		"document_id": "doc-1",
		"filename":    "contract.pdf",
	}))
	require.NoError(t, err)

	active := waitForToasts(t, svc, 1)
	assert.Equal(t, toast.KindSuccess, active[0].Kind)
	assert.Contains(t, active[0].Message, "contract.pdf")

	added := delivery.ofType("toast")
	require.Len(t, added, 1)
}

func TestTransportFailureGetsDistinctMessage(t *testing.T) {
	svc, publisher, _ := newTestNotification(t)

	require.NoError(t, publisher.Publish(context.Background(), events.New(events.TypeUploadFailed, map[string]interface{}{
		"message":   "connection refused",
		"transport": true,
	})))

	active := waitForToasts(t, svc, 1)
	assert.Equal(t, toast.KindError, active[0].Kind)
	assert.Contains(t, active[0].Message, "Could not reach")
}

func TestAnswerReceivedProducesNoToast(t *testing.T) {
	svc, publisher, _ := newTestNotification(t)

	require.NoError(t, publisher.Publish(context.Background(), events.New(events.TypeAnswerReceived, map[string]interface{}{
		"confidence": "high",
	})))
	require.NoError(t, publisher.Publish(context.Background(), events.New(events.TypeSessionReset, nil)))

	// The reset toast proves the pipeline drained past the answer event.
	active := waitForToasts(t, svc, 1)
	assert.Len(t, active, 1)
	assert.Contains(t, active[0].Message, "Session reset")
}

func TestHealthDegradedUsesLongerDuration(t *testing.T) {
	svc, publisher, _ := newTestNotification(t)

	require.NoError(t, publisher.Publish(context.Background(), events.New(events.TypeHealthDegraded, map[string]interface{}{
		"message": "connection refused",
	})))

	active := waitForToasts(t, svc, 1)
	assert.Equal(t, toast.KindWarning, active[0].Kind)
	got := active[0].ExpiresAt.Sub(active[0].CreatedAt)
	assert.Equal(t, toast.HealthCheckDuration, got)
}

func TestDismissBroadcastsRemovalOnce(t *testing.T) {
	svc, _, delivery := newTestNotification(t)

	tt := svc.Push(toast.KindError, "something failed", time.Minute)
	svc.Dismiss(tt.ID)
	svc.Dismiss(tt.ID)

	assert.Empty(t, svc.Active())
	removed := delivery.ofType("toast_removed")
	require.Len(t, removed, 1)
	assert.Equal(t, tt.ID, removed[0]["id"])
}

func TestResetRejectedWarns(t *testing.T) {
	svc, publisher, _ := newTestNotification(t)

	require.NoError(t, publisher.Publish(context.Background(), events.New(events.TypeResetRejected, nil)))

	active := waitForToasts(t, svc, 1)
	assert.Equal(t, toast.KindWarning, active[0].Kind)
	assert.Contains(t, active[0].Message, "wait for the current answer")
}
