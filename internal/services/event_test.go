package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"ticketbooth/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *domain.Event {
	return &domain.Event{
		Name:        "Go Meetup",
		Description: "Monthly meetup",
		Date:        time.Now().Add(72 * time.Hour),
		ClosingDate: time.Now().Add(48 * time.Hour),
		Location:    "Amsterdam",
		Price:       0,
		Category:    "Technology",
		Organizer:   domain.Organizer{Name: "Org", Email: "org@example.com"},
		Capacity:    50,
		Status:      domain.EventStatusActive,
	}
}

func TestEventService_Create_validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *domain.Event)
		wantMsg string
	}{
		{"missing name", func(e *domain.Event) { e.Name = " " }, "name is required"},
		{"name too long", func(e *domain.Event) { e.Name = strings.Repeat("x", 101) }, "100 characters"},
		{"missing description", func(e *domain.Event) { e.Description = "" }, "description is required"},
		{"description too long", func(e *domain.Event) { e.Description = strings.Repeat("x", 2001) }, "2000 characters"},
		{"missing location", func(e *domain.Event) { e.Location = "" }, "location is required"},
		{"location too long", func(e *domain.Event) { e.Location = strings.Repeat("x", 201) }, "200 characters"},
		{"past date", func(e *domain.Event) { e.Date = time.Now().Add(-time.Hour) }, "future"},
		{"closing after event", func(e *domain.Event) { e.ClosingDate = e.Date.Add(time.Hour) }, "closing date"},
		{"negative price", func(e *domain.Event) { e.Price = -1 }, "price"},
		{"zero capacity", func(e *domain.Event) { e.Capacity = 0 }, "capacity"},
		{"unknown category", func(e *domain.Event) { e.Category = "Underwater" }, "category"},
		{"missing organizer name", func(e *domain.Event) { e.Organizer.Name = "" }, "organizer name"},
		{"bad organizer email", func(e *domain.Event) { e.Organizer.Email = "nope" }, "organizer email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			svc := NewEventService(repo, time.Second)

			e := validEvent()
			tt.mutate(e)

			err := svc.Create(context.Background(), e)
			var valErr *domain.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Contains(t, valErr.Message, tt.wantMsg)
			assert.Empty(t, repo.created)
		})
	}
}

func TestEventService_Create_defaults(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, time.Second)

	e := validEvent()
	e.Category = ""
	e.Status = ""
	e.Attendees = 40
	e.Organizer.Email = "  ORG@Example.COM "

	require.NoError(t, svc.Create(context.Background(), e))
	assert.Equal(t, "Other", e.Category)
	assert.Equal(t, domain.EventStatusActive, e.Status)
	assert.Equal(t, 0, e.Attendees, "attendee counter always starts at zero")
	assert.Equal(t, "org@example.com", e.Organizer.Email)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestEventService_Update(t *testing.T) {
	existing := validEvent()
	existing.ID = "ev-1"
	existing.Attendees = 30

	t.Run("capacity below attendees rejected", func(t *testing.T) {
		repo := newFakeEventRepo(existing)
		svc := NewEventService(repo, time.Second)

		e := validEvent()
		e.ID = "ev-1"
		e.Capacity = 20

		err := svc.Update(context.Background(), e)
		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Contains(t, valErr.Message, "capacity")
	})

	t.Run("attendee counter is preserved", func(t *testing.T) {
		repo := newFakeEventRepo(existing)
		svc := NewEventService(repo, time.Second)

		e := validEvent()
		e.ID = "ev-1"
		e.Attendees = 0

		require.NoError(t, svc.Update(context.Background(), e))
		assert.Equal(t, 30, e.Attendees)
	})

	t.Run("status-only edit of a past event", func(t *testing.T) {
		past := validEvent()
		past.ID = "ev-past"
		past.Date = time.Now().Add(-24 * time.Hour)
		past.ClosingDate = time.Now().Add(-48 * time.Hour)
		repo := newFakeEventRepo(past)
		svc := NewEventService(repo, time.Second)

		e := validEvent()
		e.ID = "ev-past"
		e.Date = past.Date
		e.ClosingDate = past.ClosingDate
		e.Status = domain.EventStatusCompleted

		require.NoError(t, svc.Update(context.Background(), e))
		assert.Equal(t, domain.EventStatusCompleted, repo.events["ev-past"].Status)
	})

	t.Run("moving the date into the past rejected", func(t *testing.T) {
		repo := newFakeEventRepo(existing)
		svc := NewEventService(repo, time.Second)

		e := validEvent()
		e.ID = "ev-1"
		e.Date = time.Now().Add(-time.Hour)
		e.ClosingDate = time.Now().Add(-2 * time.Hour)

		err := svc.Update(context.Background(), e)
		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Contains(t, valErr.Message, "future")
	})

	t.Run("unknown event", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		e := validEvent()
		e.ID = "ev-missing"
		require.ErrorIs(t, svc.Update(context.Background(), e), domain.ErrNotFound)
	})

	t.Run("bad status rejected", func(t *testing.T) {
		repo := newFakeEventRepo(existing)
		svc := NewEventService(repo, time.Second)

		e := validEvent()
		e.ID = "ev-1"
		e.Status = "paused"

		err := svc.Update(context.Background(), e)
		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
	})
}

func TestEventService_GetPublic(t *testing.T) {
	active := validEvent()
	active.ID = "ev-active"
	cancelled := validEvent()
	cancelled.ID = "ev-cancelled"
	cancelled.Status = domain.EventStatusCancelled

	repo := newFakeEventRepo(active, cancelled)
	svc := NewEventService(repo, time.Second)

	got, err := svc.GetPublic(context.Background(), "ev-active")
	require.NoError(t, err)
	assert.Equal(t, "ev-active", got.ID)

	_, err = svc.GetPublic(context.Background(), "ev-cancelled")
	require.ErrorIs(t, err, domain.ErrNotFound, "non-active events are hidden")

	_, err = svc.GetPublic(context.Background(), "ev-missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_ListPublic_normalizesFilter(t *testing.T) {
	repo := newFakeEventRepo(validEvent())
	svc := NewEventService(repo, time.Second)

	_, total, err := svc.ListPublic(context.Background(),
		domain.EventFilter{Category: "All", Search: "  conf  "},
		domain.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
