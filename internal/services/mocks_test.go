package services

import (
	"context"
	"time"

	"ticketbooth/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	events   map[string]*domain.Event
	listErr  error
	countErr error
	saveErr  error
	created  []*domain.Event
	updated  []*domain.Event
	deleted  []string
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	m := make(map[string]*domain.Event, len(events))
	for _, e := range events {
		m[e.ID] = e
	}
	return &fakeEventRepo{events: m}
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventRepo) ListPublic(_ context.Context, _ domain.EventFilter, _ domain.PaginationParams) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) CountPublic(_ context.Context, _ domain.EventFilter) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.events), nil
}

func (f *fakeEventRepo) ListAll(_ context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	e.ID = "ev-created"
	f.created = append(f.created, e)
	f.events[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.updated = append(f.updated, e)
	f.events[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeEventRepo) IncrementAttendees(_ context.Context, id string, delta int) error {
	e, ok := f.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	if e.Attendees+delta > e.Capacity {
		return domain.ErrInsufficientCapacity
	}
	e.Attendees += delta
	return nil
}

// fakeBookingRepo is an in-memory BookingRepository. createFailures
// makes the first N CreateBooked calls fail with createErr so retry
// behavior can be exercised.
type fakeBookingRepo struct {
	events         *fakeEventRepo
	bookings       map[string]*domain.Booking
	tickets        map[string]*domain.Ticket
	createErr      error
	createFailures int
	createCalls    int
	createdIDs     [][]string
	markUsedErr    error
}

func newFakeBookingRepo(events *fakeEventRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		events:   events,
		bookings: make(map[string]*domain.Booking),
		tickets:  make(map[string]*domain.Ticket),
	}
}

func (f *fakeBookingRepo) CreateBooked(ctx context.Context, b *domain.Booking) error {
	f.createCalls++
	f.createdIDs = append(f.createdIDs, append([]string(nil), b.TicketIDs...))
	if f.createErr != nil && (f.createFailures == 0 || f.createCalls <= f.createFailures) {
		return f.createErr
	}
	if f.events != nil {
		if err := f.events.IncrementAttendees(ctx, b.EventID, b.Quantity); err != nil {
			return err
		}
	}
	b.ID = "bk-" + b.PaymentID
	f.bookings[b.ID] = b
	for i, tid := range b.TicketIDs {
		f.tickets[tid] = &domain.Ticket{
			TicketID:  tid,
			BookingID: b.ID,
			EventID:   b.EventID,
			Number:    i + 1,
		}
	}
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) ListByCustomerEmail(_ context.Context, email string) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.CustomerInfo.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.Booking, *domain.Ticket, error) {
	t, ok := f.tickets[ticketID]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	b, ok := f.bookings[t.BookingID]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	return b, t, nil
}

func (f *fakeBookingRepo) MarkTicketUsed(_ context.Context, ticketID string) (bool, error) {
	if f.markUsedErr != nil {
		return false, f.markUsedErr
	}
	t, ok := f.tickets[ticketID]
	if !ok || t.UsedAt != nil {
		return false, nil
	}
	now := time.Now()
	t.UsedAt = &now
	return true, nil
}

// fakeGateway records charges and optionally declines.
type fakeGateway struct {
	err     error
	charges []int64
}

func (f *fakeGateway) Charge(_ context.Context, amount int64, _ domain.PaymentMethod) (*domain.PaymentResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.charges = append(f.charges, amount)
	return &domain.PaymentResult{Reference: "ch_test"}, nil
}

// fakeNotifier records published confirmations.
type fakeNotifier struct {
	err      error
	messages []*domain.BookingConfirmedMessage
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, msg *domain.BookingConfirmedMessage) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}
