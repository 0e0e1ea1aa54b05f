package messaging

import (
	"context"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
	"github.com/matst80/location-listing/pkg/coordinator"
)

var ErrUnknownWidget = errors.New("unknown widget")

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic calls handle for every delivery until the channel closes.
// Messages that fail are rejected without requeue.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, handle func(amqp.Delivery) error) error {
	msgs, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func() {
		defer ch.Close()
		for d := range msgs {
			if err := handle(d); err != nil {
				log.Printf("Error processing message: %v", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}()
	return nil
}

// CommandHandler applies command messages to the widgets of a registry.
func CommandHandler(ctx context.Context, registry *coordinator.Registry) func(amqp.Delivery) error {
	return func(d amqp.Delivery) error {
		return HandleCommand(ctx, registry, d.Body)
	}
}

func HandleCommand(ctx context.Context, registry *coordinator.Registry, body []byte) error {
	var msg Message
	if err := jsoncompat.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	c, ok := registry.Get(msg.Widget)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, msg.Widget)
	}
	err := coordinator.Dispatch(ctx, c, msg.Name, msg.Payload)
	if errors.Is(err, coordinator.ErrSuperseded) {
		return nil
	}
	return err
}
