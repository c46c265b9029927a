package events

import "time"

// Event defines the contract for all session outcome events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "UPLOAD_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Outcome event codes published by the session state machine and consumed
// by the notification service.
const (
	TypeUploadCompleted   = "UPLOAD_COMPLETED"
	TypeUploadFailed      = "UPLOAD_FAILED"
	TypeAnswerReceived    = "ANSWER_RECEIVED"
	TypeAnswerFailed      = "ANSWER_FAILED"
	TypeSessionReset      = "SESSION_RESET"
	TypeResetRejected     = "RESET_REJECTED"
	TypeResetFailedRemote = "RESET_FAILED_REMOTE"
	TypeValidationFailed  = "VALIDATION_FAILED"
	TypeHealthDegraded    = "HEALTH_DEGRADED"
)

// BaseEvent is the standard Event implementation.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// New builds a BaseEvent stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = make(map[string]interface{})
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
