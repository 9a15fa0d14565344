package leave

import (
	"context"
	"encoding/json"

	"leavedesk/internal/events"

	"github.com/segmentio/kafka-go"
)

type DecisionPublisher interface {
	PublishLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error
}

type noopDecisionPublisher struct{}

func (noopDecisionPublisher) PublishLeaveDecided(context.Context, events.LeaveDecidedEvent) error {
	return nil
}

func NewNoopDecisionPublisher() DecisionPublisher {
	return noopDecisionPublisher{}
}

type kafkaDecisionPublisher struct {
	writer *kafka.Writer
}

func NewKafkaDecisionPublisher(writer *kafka.Writer) DecisionPublisher {
	return &kafkaDecisionPublisher{writer: writer}
}

func (p *kafkaDecisionPublisher) PublishLeaveDecided(
	ctx context.Context,
	event events.LeaveDecidedEvent,
) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: events.LeaveDecidedTopic,
		Key:   []byte(event.RequestID),
		Value: payload,
	})
}
