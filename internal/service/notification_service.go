package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"legal-docchat-be/internal/pkg/logger"
	"legal-docchat-be/pkg/events"
	"legal-docchat-be/pkg/toast"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ToastDelivery pushes real-time toast updates to connected clients.
// Typically implemented by the WebSocket Hub.
type ToastDelivery interface {
	Broadcast(payload interface{})
}

// NotificationService turns session outcome events into toasts and keeps
// connected clients in sync with the toast list.
type NotificationService struct {
	queue    *toast.Queue
	pubSub   *gochannel.GoChannel
	delivery ToastDelivery
	logger   logger.ILogger

	healthToastDuration time.Duration
}

func NewNotificationService(pubSub *gochannel.GoChannel, delivery ToastDelivery, log logger.ILogger, healthToastDuration time.Duration) *NotificationService {
	if healthToastDuration <= 0 {
		healthToastDuration = toast.HealthCheckDuration
	}
	s := &NotificationService{
		pubSub:              pubSub,
		delivery:            delivery,
		logger:              log,
		healthToastDuration: healthToastDuration,
	}
	s.queue = toast.NewQueue(s.onToastAdded, s.onToastRemoved)
	return s
}

// Start begins listening to the event bus.
func (s *NotificationService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, SessionEventsTopic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SessionEventsTopic, err)
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	s.logger.Info("NotificationService", "Notification service started", map[string]interface{}{
		"topic": SessionEventsTopic,
	})
	return nil
}

// Active returns the toasts currently on display.
func (s *NotificationService) Active() []toast.Toast {
	return s.queue.Active()
}

// Dismiss removes a toast immediately. Unknown ids are a silent no-op.
func (s *NotificationService) Dismiss(id string) {
	s.queue.Dismiss(id)
}

// Push enqueues a toast directly, bypassing the event bus. Used by the
// health prober.
func (s *NotificationService) Push(kind toast.Kind, message string, duration time.Duration) toast.Toast {
	return s.queue.Push(kind, message, duration)
}

func (s *NotificationService) processMessage(msg *message.Message) {
	defer msg.Ack()

	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		s.logger.Error("NotificationService", "Failed to unmarshal event", map[string]interface{}{"error": err})
		return
	}

	kind, text, duration := s.toastFor(event)
	if text == "" {
		// Not every outcome is toast-worthy; answers land in the
		// transcript already.
		return
	}
	s.queue.Push(kind, text, duration)
}

// toastFor maps an outcome event to its toast. An empty message means no
// toast for this event type.
func (s *NotificationService) toastFor(event events.BaseEvent) (toast.Kind, string, time.Duration) {
	payload := event.Payload()

	switch event.EventType() {
	case events.TypeUploadCompleted:
		return toast.KindSuccess, fmt.Sprintf("Document %q uploaded and sent for analysis", str(payload, "filename")), 0

	case events.TypeUploadFailed:
		if isTransport(payload) {
			return toast.KindError, "Could not reach the analysis backend to upload your document. Please try again.", 0
		}
		return toast.KindError, fmt.Sprintf("Upload failed: %s", str(payload, "message")), 0

	case events.TypeAnswerFailed:
		if isTransport(payload) {
			return toast.KindError, "Lost connection to the analysis backend while answering. Please try again.", 0
		}
		return toast.KindError, fmt.Sprintf("The assistant could not answer: %s", str(payload, "message")), 0

	case events.TypeSessionReset:
		return toast.KindSuccess, "Session reset. Upload a new document to continue.", 0

	case events.TypeResetRejected:
		return toast.KindWarning, "Please wait for the current answer before resetting.", 0

	case events.TypeResetFailedRemote:
		return toast.KindWarning, "The backend session could not be cleared remotely; your local session was reset anyway.", 0

	case events.TypeValidationFailed:
		return toast.KindError, str(payload, "message"), 0

	case events.TypeHealthDegraded:
		return toast.KindWarning, fmt.Sprintf("Analysis backend health check failed: %s", str(payload, "message")), s.healthToastDuration
	}

	return "", "", 0
}

func (s *NotificationService) onToastAdded(t toast.Toast) {
	s.logger.Info("NotificationService", "Toast queued", map[string]interface{}{
		"id": t.ID, "kind": t.Kind, "message": t.Message,
	})
	if s.delivery != nil {
		s.delivery.Broadcast(map[string]interface{}{"type": "toast", "data": t})
	}
}

func (s *NotificationService) onToastRemoved(id string) {
	if s.delivery != nil {
		s.delivery.Broadcast(map[string]interface{}{"type": "toast_removed", "id": id})
	}
}

func str(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func isTransport(payload map[string]interface{}) bool {
	v, ok := payload["transport"].(bool)
	return ok && v
}
