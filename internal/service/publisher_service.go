package service

import (
	"context"
	"encoding/json"
	"fmt"

	"legal-docchat-be/pkg/events"
	pktNats "legal-docchat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// SessionEventsTopic is the in-process topic carrying session outcome
// events from the state machine to the notification service.
const SessionEventsTopic = "session.events"

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

// publisherService fans outcome events onto the local watermill bus and,
// when configured, mirrors them to NATS for other instances.
type publisherService struct {
	pubSub  *gochannel.GoChannel
	topic   string
	natsPub *pktNats.Publisher // optional, nil when NATS is not configured
}

func NewPublisherService(pubSub *gochannel.GoChannel, natsPub *pktNats.Publisher) IPublisherService {
	return &publisherService{
		pubSub:  pubSub,
		topic:   SessionEventsTopic,
		natsPub: natsPub,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) error {
	envelope := events.BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubSub.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	// Cross-instance mirror is best effort.
	if p.natsPub != nil {
		if err := p.natsPub.Publish(ctx, event); err != nil {
			return fmt.Errorf("mirror event to nats: %w", err)
		}
	}
	return nil
}
