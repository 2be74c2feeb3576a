package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/rispar0529/De-Sign/internal/dto"
	"github.com/rispar0529/De-Sign/internal/workflow"
)

const (
	EventSessionStageChanged = "SESSION_STAGE_CHANGED"
	EventSessionActionRan    = "SESSION_ACTION_RAN"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pubSub.Publish(p.topicName, msg)
}

// auditPublisher adapts the message bus to the engine's publisher contract.
// Publishing is fire-and-forget: a bus failure never fails the transition
// that triggered it.
type auditPublisher struct {
	publisher IPublisherService
}

func NewAuditPublisher(publisher IPublisherService) workflow.EventPublisher {
	return &auditPublisher{publisher: publisher}
}

func (p *auditPublisher) PublishStageChanged(session *workflow.Session, from workflow.Stage) {
	p.emit(dto.SessionEventMessage{
		EventType:  EventSessionStageChanged,
		SessionId:  session.Id.String(),
		UserId:     session.UserId,
		Stage:      string(session.Stage),
		FromStage:  string(from),
		OccurredAt: time.Now(),
	})
}

func (p *auditPublisher) PublishActionRan(session *workflow.Session, action workflow.ActionKind) {
	p.emit(dto.SessionEventMessage{
		EventType:  EventSessionActionRan,
		SessionId:  session.Id.String(),
		UserId:     session.UserId,
		Stage:      string(session.Stage),
		Action:     string(action),
		OccurredAt: time.Now(),
	})
}

func (p *auditPublisher) emit(msg dto.SessionEventMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	_ = p.publisher.Publish(context.Background(), payload)
}
