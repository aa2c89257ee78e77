package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ticketbooth/internal/domain"
)

type bookingService struct {
	eventRepo      domain.EventRepository
	bookingRepo    domain.BookingRepository
	gateway        domain.PaymentGateway
	notifier       domain.BookingNotifier
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewBookingService creates the booking orchestrator. notifier may be nil,
// in which case confirmations are not published.
func NewBookingService(
	eventRepo domain.EventRepository,
	bookingRepo domain.BookingRepository,
	gateway domain.PaymentGateway,
	notifier domain.BookingNotifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		eventRepo:      eventRepo,
		bookingRepo:    bookingRepo,
		gateway:        gateway,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// Book runs the booking flow: load and validate the event, compute the
// price, generate identifiers, charge the gateway for paid events, then
// commit the booking and the attendee increment in one transaction.
// Nothing is mutated before the payment step succeeds; the conditional
// increment inside CreateBooked is the authoritative capacity guard, the
// check here is only an optimistic pre-check.
func (s *bookingService) Book(ctx context.Context, req *domain.BookingRequest) (*domain.BookingConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if event.Status != domain.EventStatusActive {
		return nil, domain.ErrEventUnavailable
	}
	if now.After(event.ClosingDate) {
		return nil, domain.ErrRegistrationClosed
	}
	if event.Attendees+req.Quantity > event.Capacity {
		return nil, domain.ErrInsufficientCapacity
	}

	totalPrice := event.Price * int64(req.Quantity)

	paymentStatus := domain.PaymentStatusCompleted
	if totalPrice > 0 {
		if req.Payment == nil {
			return nil, domain.NewValidationError("payment method is required for paid events")
		}
		if _, err := s.gateway.Charge(ctx, totalPrice, *req.Payment); err != nil {
			if errors.Is(err, domain.ErrPaymentFailed) {
				return nil, err
			}
			return nil, fmt.Errorf("charge payment: %w", err)
		}
	}

	booking, err := s.commitBooking(ctx, event, req, totalPrice, paymentStatus, now)
	if err != nil {
		return nil, err
	}

	s.publishConfirmation(ctx, event, booking, now)

	return &domain.BookingConfirmation{
		Booking:       booking,
		EventName:     event.Name,
		EventDate:     event.Date,
		EventLocation: event.Location,
	}, nil
}

// commitBooking generates identifiers and persists the booking. On an
// identifier collision it regenerates once before giving up.
func (s *bookingService) commitBooking(
	ctx context.Context,
	event *domain.Event,
	req *domain.BookingRequest,
	totalPrice int64,
	paymentStatus domain.PaymentStatus,
	now time.Time,
) (*domain.Booking, error) {
	for attempt := 0; attempt < 2; attempt++ {
		ticketIDs, err := NewTicketIDs(req.Quantity)
		if err != nil {
			return nil, fmt.Errorf("generate ticket ids: %w", err)
		}
		paymentID, err := NewPaymentID()
		if err != nil {
			return nil, fmt.Errorf("generate payment id: %w", err)
		}

		booking := &domain.Booking{
			EventID:       event.ID,
			CustomerInfo:  req.CustomerInfo,
			Quantity:      req.Quantity,
			TotalPrice:    totalPrice,
			PaymentID:     paymentID,
			PaymentStatus: paymentStatus,
			TicketIDs:     ticketIDs,
			BookingDate:   now,
			Status:        domain.BookingStatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		err = s.bookingRepo.CreateBooked(ctx, booking)
		if err == nil {
			return booking, nil
		}
		if errors.Is(err, domain.ErrDuplicateIdentifier) {
			s.logger.WarnContext(ctx, "identifier collision, regenerating", "event_id", event.ID, "attempt", attempt+1)
			continue
		}
		return nil, err
	}
	return nil, domain.ErrDuplicateIdentifier
}

func (s *bookingService) publishConfirmation(ctx context.Context, event *domain.Event, booking *domain.Booking, now time.Time) {
	if s.notifier == nil {
		return
	}
	msg := &domain.BookingConfirmedMessage{
		BookingID:     booking.ID,
		EventID:       event.ID,
		EventName:     event.Name,
		EventDate:     event.Date,
		CustomerEmail: booking.CustomerInfo.Email,
		Quantity:      booking.Quantity,
		TotalPrice:    booking.TotalPrice,
		TicketIDs:     booking.TicketIDs,
		ConfirmedAt:   now,
	}
	if err := s.notifier.BookingConfirmed(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "failed to publish booking confirmation", "booking_id", booking.ID, "err", err)
	}
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) ListByCustomerEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, domain.NewValidationError("invalid email format")
	}
	return s.bookingRepo.ListByCustomerEmail(ctx, email)
}

func validateBookingRequest(req *domain.BookingRequest) error {
	if req.EventID == "" {
		return domain.NewValidationError("eventId is required")
	}
	if req.Quantity < 1 {
		return domain.NewValidationError("quantity must be at least 1")
	}
	if req.Quantity > domain.MaxTicketsPerBooking {
		return domain.NewValidationError(fmt.Sprintf("maximum %d tickets per booking", domain.MaxTicketsPerBooking))
	}
	req.CustomerInfo.FirstName = strings.TrimSpace(req.CustomerInfo.FirstName)
	req.CustomerInfo.LastName = strings.TrimSpace(req.CustomerInfo.LastName)
	req.CustomerInfo.Email = strings.TrimSpace(strings.ToLower(req.CustomerInfo.Email))
	if req.CustomerInfo.FirstName == "" || req.CustomerInfo.LastName == "" {
		return domain.NewValidationError("customer name is required")
	}
	if !emailRegexp.MatchString(req.CustomerInfo.Email) {
		return domain.NewValidationError("customer email is invalid")
	}
	return nil
}
