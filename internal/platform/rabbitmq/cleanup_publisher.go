package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vmihailenco/msgpack/v5"

	"excel-analytics/internal/model"
)

const ContentTypeMsgpack = "application/msgpack"

type CleanupPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewCleanupPublisher(conn *amqp.Connection, queueName string) *CleanupPublisher {
	return &CleanupPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

// Cleanup enqueues removal of a stored upload file for the cleanup worker.
func (p *CleanupPublisher) Cleanup(ctx context.Context, event model.FileCleanupEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := EncodeCleanupEvent(event)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  ContentTypeMsgpack,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish cleanup event failed: %w", err)
	}
	return nil
}

func EncodeCleanupEvent(event model.FileCleanupEvent) ([]byte, error) {
	payload, err := msgpack.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal cleanup event failed: %w", err)
	}
	return payload, nil
}

func DecodeCleanupEvent(body []byte) (model.FileCleanupEvent, error) {
	var event model.FileCleanupEvent
	if err := msgpack.Unmarshal(body, &event); err != nil {
		return model.FileCleanupEvent{}, fmt.Errorf("unmarshal cleanup event failed: %w", err)
	}
	return event, nil
}
