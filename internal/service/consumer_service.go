// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/rispar0529/De-Sign/internal/dto"
	"github.com/rispar0529/De-Sign/internal/pkg/logger"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the audit topic and writes every workflow event to
// the dedicated audit log file.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	auditLog  logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	auditLog logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		auditLog:  auditLog,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.SessionEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.auditLog.Error("audit", "failed to unmarshal event message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	details := map[string]interface{}{
		"session_id":  payload.SessionId,
		"user_id":     payload.UserId,
		"stage":       payload.Stage,
		"occurred_at": payload.OccurredAt,
	}
	if payload.FromStage != "" {
		details["from_stage"] = payload.FromStage
	}
	if payload.Action != "" {
		details["action"] = payload.Action
	}

	cs.auditLog.Info("audit", payload.EventType, details)
	msg.Ack()
}
