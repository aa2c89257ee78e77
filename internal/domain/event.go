package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// Categories is the fixed set of event categories.
var Categories = []string{
	"Technology", "Business", "Arts", "Sports", "Food",
	"Music", "Education", "Health", "Other",
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Organizer identifies who runs an event.
type Organizer struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// Event represents a bookable, capacity-bounded event.
// Price is in minor currency units; zero means the event is free.
// swagger:model Event
type Event struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	ClosingDate time.Time   `json:"closingDate"`
	Location    string      `json:"location"`
	Price       int64       `json:"price"`
	ImageURL    string      `json:"imageUrl"`
	Category    string      `json:"category"`
	Organizer   Organizer   `json:"organizer"`
	Capacity    int         `json:"capacity"`
	Attendees   int         `json:"attendees"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsFree reports whether the event costs nothing to attend.
func (e *Event) IsFree() bool {
	return e.Price == 0
}

// AvailableSpots returns the remaining capacity.
func (e *Event) AvailableSpots() int {
	return e.Capacity - e.Attendees
}

// RegistrationOpen reports whether bookings are accepted at the given time.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return !now.After(e.ClosingDate) && e.Attendees < e.Capacity && e.Status == EventStatusActive
}

// EventFilter narrows public event listings. Search matches name,
// description and location case-insensitively.
type EventFilter struct {
	Category string
	Search   string
}

// EventRepository defines the interface for event storage.
// IncrementAttendees is the authoritative guard against overbooking: the
// increment only succeeds when attendees+delta still fits the capacity.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
	ListPublic(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, error)
	CountPublic(ctx context.Context, filter EventFilter) (int, error)
	ListAll(ctx context.Context) ([]*Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	IncrementAttendees(ctx context.Context, id string, delta int) error
}

// EventService defines the business logic for public listings and
// admin event management.
type EventService interface {
	ListPublic(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	GetPublic(ctx context.Context, id string) (*Event, error)
	ListAll(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}
