package domain

import (
	"context"
	"time"
)

// BookingConfirmedMessage is published after a booking commits. It carries
// enough for downstream consumers to notify or run analytics without
// querying the primary database.
type BookingConfirmedMessage struct {
	BookingID     string    `json:"booking_id"`
	EventID       string    `json:"event_id"`
	EventName     string    `json:"event_name"`
	EventDate     time.Time `json:"event_date"`
	CustomerEmail string    `json:"customer_email"`
	Quantity      int       `json:"quantity"`
	TotalPrice    int64     `json:"total_price"`
	TicketIDs     []string  `json:"ticket_ids"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// BookingNotifier publishes booking confirmations. Publishing is
// best-effort: failures are logged by the caller and never fail the booking.
type BookingNotifier interface {
	BookingConfirmed(ctx context.Context, msg *BookingConfirmedMessage) error
}
