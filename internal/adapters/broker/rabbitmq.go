// Package broker publishes booking notifications to RabbitMQ.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"ticketbooth/internal/domain"
)

const bookingConfirmedQueue = "booking.confirmed"

type rabbitNotifier struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewRabbitNotifier dials the broker and declares the booking.confirmed
// queue. The queue is durable so messages survive broker restarts.
func NewRabbitNotifier(url string) (domain.BookingNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(
		bookingConfirmedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	return &rabbitNotifier{conn: conn, ch: ch}, nil
}

func (n *rabbitNotifier) BookingConfirmed(ctx context.Context, msg *domain.BookingConfirmedMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal booking confirmation: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := n.ch.PublishWithContext(ctx, "", bookingConfirmedQueue, false, false, pub); err != nil {
		return fmt.Errorf("publish booking confirmation: %w", err)
	}
	return nil
}

func (n *rabbitNotifier) Close() error {
	if err := n.ch.Close(); err != nil {
		n.conn.Close()
		return err
	}
	return n.conn.Close()
}
