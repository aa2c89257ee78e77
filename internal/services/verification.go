package services

import (
	"context"
	"errors"
	"time"

	"ticketbooth/internal/domain"
)

type verificationService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewVerificationService creates the door-scan verifier.
func NewVerificationService(bookingRepo domain.BookingRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.VerificationService {
	return &verificationService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// Verify checks a ticket against the event it is being scanned for. A
// valid first scan marks the ticket used atomically, so two concurrent
// scans of the same ticket admit exactly one holder.
func (s *verificationService) Verify(ctx context.Context, ticketID, eventID string) (*domain.VerificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ticketID == "" || eventID == "" {
		return nil, domain.NewValidationError("ticketId and eventId are required")
	}

	booking, ticket, err := s.bookingRepo.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return invalidResult(), nil
		}
		return nil, err
	}
	if booking.EventID != eventID || booking.Status != domain.BookingStatusActive {
		return invalidResult(), nil
	}

	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return invalidResult(), nil
		}
		return nil, err
	}

	verified := &domain.VerifiedTicket{
		ID:           ticket.TicketID,
		EventName:    event.Name,
		EventDate:    event.Date,
		HolderName:   booking.CustomerInfo.FirstName + " " + booking.CustomerInfo.LastName,
		TicketNumber: ticket.Number,
	}

	// Expiry wins over consumption: once the event is over every ticket
	// reports expired, whether or not it was scanned in.
	switch {
	case s.now().After(event.Date):
		verified.Status = domain.TicketStatusExpired
	case ticket.UsedAt != nil:
		verified.Status = domain.TicketStatusUsed
	default:
		ok, err := s.bookingRepo.MarkTicketUsed(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if ok {
			verified.Status = domain.TicketStatusValid
		} else {
			// Another scan won the race between the read and the update.
			verified.Status = domain.TicketStatusUsed
		}
	}

	return &domain.VerificationResult{
		Valid:  verified.Status == domain.TicketStatusValid,
		Status: verified.Status,
		Ticket: verified,
	}, nil
}

func invalidResult() *domain.VerificationResult {
	return &domain.VerificationResult{Valid: false, Status: domain.TicketStatusInvalid}
}
