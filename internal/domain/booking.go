package domain

import (
	"context"
	"time"
)

// PaymentStatus tracks the payment lifecycle of a booking.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// BookingStatus is the lifecycle state of a booking. Cancellation is a
// status flip, never a delete.
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// MaxTicketsPerBooking caps the quantity of a single booking.
const MaxTicketsPerBooking = 10

// CustomerInfo holds the contact details captured with a booking.
type CustomerInfo struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

// Booking is a customer's reservation of one or more tickets against an
// event. TotalPrice is captured at booking time and never recomputed.
// len(TicketIDs) always equals Quantity.
// swagger:model Booking
type Booking struct {
	ID            string        `json:"id"`
	EventID       string        `json:"eventId"`
	CustomerInfo  CustomerInfo  `json:"customerInfo"`
	Quantity      int           `json:"quantity"`
	TotalPrice    int64         `json:"totalPrice"`
	PaymentID     string        `json:"paymentId"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	TicketIDs     []string      `json:"ticketIds"`
	BookingDate   time.Time     `json:"bookingDate"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Ticket is one admission within a booking. UsedAt is set by the first
// successful door-scan; it never transitions back.
type Ticket struct {
	TicketID  string     `json:"ticketId"`
	BookingID string     `json:"bookingId"`
	EventID   string     `json:"eventId"`
	Number    int        `json:"number"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
}

// BookingRepository defines the interface for booking and ticket storage.
//
// CreateBooked must commit the booking insert and the event attendee
// increment in one transaction: either both apply or neither does. It
// returns ErrInsufficientCapacity when the increment would exceed
// capacity and ErrDuplicateIdentifier when a ticket or payment id
// already exists.
type BookingRepository interface {
	CreateBooked(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]*Booking, error)
	GetByTicketID(ctx context.Context, ticketID string) (*Booking, *Ticket, error)
	// MarkTicketUsed flips a ticket from unused to used. It reports false
	// when the ticket was already used; only one concurrent scan wins.
	MarkTicketUsed(ctx context.Context, ticketID string) (bool, error)
}

// BookingRequest is the input to the booking orchestration.
type BookingRequest struct {
	EventID      string
	Quantity     int
	CustomerInfo CustomerInfo
	Payment      *PaymentMethod
}

// BookingConfirmation is returned to the caller after a successful
// booking, with the event snapshot fields needed for display.
type BookingConfirmation struct {
	Booking       *Booking  `json:"booking"`
	EventName     string    `json:"eventName"`
	EventDate     time.Time `json:"eventDate"`
	EventLocation string    `json:"eventLocation"`
}

// BookingService defines the booking orchestration and lookups.
type BookingService interface {
	Book(ctx context.Context, req *BookingRequest) (*BookingConfirmation, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]*Booking, error)
}

// TicketStatus is the outcome of a verification scan.
type TicketStatus string

const (
	TicketStatusValid   TicketStatus = "valid"
	TicketStatusUsed    TicketStatus = "used"
	TicketStatusExpired TicketStatus = "expired"
	TicketStatusInvalid TicketStatus = "invalid"
)

// VerifiedTicket describes the ticket returned with a verification result.
type VerifiedTicket struct {
	ID           string       `json:"id"`
	EventName    string       `json:"eventName"`
	EventDate    time.Time    `json:"eventDate"`
	HolderName   string       `json:"holderName"`
	TicketNumber int          `json:"ticketNumber"`
	Status       TicketStatus `json:"status"`
}

// VerificationResult is the outcome of a door-scan.
type VerificationResult struct {
	Valid  bool            `json:"valid"`
	Status TicketStatus    `json:"status"`
	Ticket *VerifiedTicket `json:"ticket,omitempty"`
}

// VerificationService checks a ticket/event pair. The first scan of a
// valid ticket marks it used; later scans of the same ticket report used.
type VerificationService interface {
	Verify(ctx context.Context, ticketID, eventID string) (*VerificationResult, error)
}
