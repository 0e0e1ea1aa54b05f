package messaging

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
	"github.com/matst80/location-listing/pkg/events"
)

// Publisher is the part of *amqp.Channel used to send messages.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := getName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return err
	}
	_, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	)
	return err
}

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func SendChange[V any](ctx context.Context, ch Publisher, prefix string, topic ChangeTopic, data V) error {
	bytes, err := jsoncompat.Marshal(data)
	if err != nil {
		return err
	}
	name := getName(prefix, topic)
	return ch.PublishWithContext(
		ctx,
		name,
		name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        bytes,
		},
	)
}

// RabbitEmitter publishes emitted widget events to the listing events topic.
type RabbitEmitter struct {
	ch      Publisher
	prefix  string
	timeout time.Duration
}

func NewRabbitEmitter(ch Publisher, prefix string) *RabbitEmitter {
	return &RabbitEmitter{ch: ch, prefix: prefix, timeout: 5 * time.Second}
}

func (e *RabbitEmitter) Emit(event events.Event) {
	payload, err := jsoncompat.Marshal(event.Payload)
	if err != nil {
		log.Printf("Failed to encode %s: %v", event.Name, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	msg := Message{Widget: event.Widget, Name: event.Name, Payload: payload}
	if err := SendChange(ctx, e.ch, e.prefix, ListingEvents, msg); err != nil {
		log.Printf("Failed to publish %s for %s: %v", event.Name, event.Widget, err)
	}
}
