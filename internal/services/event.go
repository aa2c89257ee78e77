package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ticketbooth/internal/domain"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 2000
	maxLocationLength    = 200
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListPublic(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// "All" is the catch-all category sent by the browse page.
	if filter.Category == "All" {
		filter.Category = ""
	}
	filter.Search = strings.TrimSpace(filter.Search)

	events, err := s.eventRepo.ListPublic(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	total, err := s.eventRepo.CountPublic(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) GetPublic(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Cancelled and completed events are hidden from the public surface.
	if event.Status != domain.EventStatusActive {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

func (s *eventService) ListAll(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.ListAll(ctx)
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	normalizeEvent(event)
	if event.Category == "" {
		event.Category = "Other"
	}
	if event.Status == "" {
		event.Status = domain.EventStatusActive
	}
	if err := validateEvent(event, time.Now(), true); err != nil {
		return err
	}

	event.Attendees = 0
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) Update(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return err
	}

	normalizeEvent(event)
	// The future-date rule only applies when the date itself changes, so a
	// finished event can still be flipped to completed or cancelled.
	dateChanged := !event.Date.Equal(existing.Date)
	if err := validateEvent(event, time.Now(), dateChanged); err != nil {
		return err
	}
	if event.Capacity < existing.Attendees {
		return domain.NewValidationError(
			fmt.Sprintf("capacity cannot be reduced below the current attendee count (%d)", existing.Attendees))
	}
	switch event.Status {
	case domain.EventStatusActive, domain.EventStatusCancelled, domain.EventStatusCompleted:
	default:
		return domain.NewValidationError("invalid event status")
	}

	// The attendee counter is owned by the booking flow, never the admin form.
	event.Attendees = existing.Attendees
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return err
	}
	return nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.Delete(ctx, id)
}

func normalizeEvent(e *domain.Event) {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
	e.Location = strings.TrimSpace(e.Location)
	e.ImageURL = strings.TrimSpace(e.ImageURL)
	e.Organizer.Name = strings.TrimSpace(e.Organizer.Name)
	e.Organizer.Email = strings.TrimSpace(strings.ToLower(e.Organizer.Email))
}

// validateEvent enforces the event invariants: closing date on or before
// the event date, positive capacity, non-negative price. The future-date
// rule is gated on requireFutureDate so edits that keep an event's
// existing date keep working after the event has happened.
func validateEvent(e *domain.Event, now time.Time, requireFutureDate bool) error {
	switch {
	case e.Name == "":
		return domain.NewValidationError("event name is required")
	case len(e.Name) > maxNameLength:
		return domain.NewValidationError("event name cannot exceed 100 characters")
	case e.Description == "":
		return domain.NewValidationError("event description is required")
	case len(e.Description) > maxDescriptionLength:
		return domain.NewValidationError("description cannot exceed 2000 characters")
	case e.Location == "":
		return domain.NewValidationError("event location is required")
	case len(e.Location) > maxLocationLength:
		return domain.NewValidationError("location cannot exceed 200 characters")
	case e.Date.IsZero():
		return domain.NewValidationError("event date is required")
	case requireFutureDate && !e.Date.After(now):
		return domain.NewValidationError("event date must be in the future")
	case e.ClosingDate.IsZero():
		return domain.NewValidationError("closing date is required")
	case e.ClosingDate.After(e.Date):
		return domain.NewValidationError("closing date must be before or on the event date")
	case e.Price < 0:
		return domain.NewValidationError("price cannot be negative")
	case e.Capacity < 1:
		return domain.NewValidationError("capacity must be at least 1")
	case !domain.ValidCategory(e.Category):
		return domain.NewValidationError("unknown category")
	case e.Organizer.Name == "":
		return domain.NewValidationError("organizer name is required")
	case !emailRegexp.MatchString(e.Organizer.Email):
		return domain.NewValidationError("organizer email is invalid")
	}
	return nil
}
