package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"ticketbooth/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{
	"id", "name", "description", "date", "closing_date", "location", "price", "image_url",
	"category", "organizer_name", "organizer_email", "organizer_phone",
	"capacity", "attendees", "status", "created_at", "updated_at",
}

func addEventRow(rows *sqlmock.Rows, id string, attendees, capacity int) *sqlmock.Rows {
	ts := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow([]driver.Value{
		id, "Tech Conf", "A conference", ts, ts, "Berlin", int64(4500), "",
		"Technology", "Org", "org@example.com", nil,
		capacity, attendees, "active", ts, ts,
	}...)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Name:        "Tech Conf",
				Description: "A conference",
				Date:        ts,
				ClosingDate: ts,
				Location:    "Berlin",
				Price:       4500,
				Category:    "Technology",
				Organizer:   domain.Organizer{Name: "Org", Email: "org@example.com"},
				Capacity:    100,
				Status:      domain.EventStatusActive,
				CreatedAt:   ts,
				UpdatedAt:   ts,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID:  "ev-uuid-1",
			wantErr: false,
		},
		{
			name:  "db error",
			event: &domain.Event{Name: "Tech Conf"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, description, date, closing_date`).
					WithArgs("ev-1").
					WillReturnRows(addEventRow(sqlmock.NewRows(eventCols), "ev-1", 10, 100))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, description, date, closing_date`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "malformed id maps to not found",
			id:   "not-a-uuid",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, description, date, closing_date`).
					WithArgs("not-a-uuid").
					WillReturnError(&pq.Error{Code: "22P02"})
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.id, got.ID)
			require.Equal(t, 10, got.Attendees)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ListPublic(t *testing.T) {
	ctx := context.Background()
	params := domain.PaginationParams{Page: 2, Limit: 10}

	tests := []struct {
		name   string
		filter domain.EventFilter
		mock   func(mock sqlmock.Sqlmock)
		want   int
	}{
		{
			name:   "no filter",
			filter: domain.EventFilter{},
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(eventCols)
				addEventRow(rows, "ev-1", 0, 100)
				addEventRow(rows, "ev-2", 5, 50)
				mock.ExpectQuery(`SELECT id, name, description, date, closing_date.+WHERE status = 'active' AND date >= NOW\(\).+ORDER BY date ASC`).
					WithArgs(10, 10).
					WillReturnRows(rows)
			},
			want: 2,
		},
		{
			name:   "category and search filter",
			filter: domain.EventFilter{Category: "Technology", Search: "conf"},
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(eventCols)
				addEventRow(rows, "ev-1", 0, 100)
				mock.ExpectQuery(`category = \$1.+name ILIKE \$2 OR description ILIKE \$2 OR location ILIKE \$2`).
					WithArgs("Technology", "%conf%", 10, 10).
					WillReturnRows(rows)
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.ListPublic(ctx, tt.filter, params)
			require.NoError(t, err)
			require.Len(t, got, tt.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_CountPublic(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE status = 'active'`).
		WithArgs("Music").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	repo := NewEventRepository(db)
	total, err := repo.CountPublic(ctx, domain.EventFilter{Category: "Music"})
	require.NoError(t, err)
	require.Equal(t, 42, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET name = \$1`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET name = \$1`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Update(ctx, &domain.Event{ID: "ev-1", Name: "Renamed"})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
		WithArgs("ev-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewEventRepository(db)
	require.ErrorIs(t, repo.Delete(ctx, "ev-missing"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_IncrementAttendees(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET attendees = attendees \+ \$1`).
					WithArgs(3, "ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "over capacity",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET attendees = attendees \+ \$1`).
					WithArgs(3, "ev-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				// The guard rejected the update; the follow-up read decides
				// between missing event and full event.
				mock.ExpectQuery(`SELECT id, name, description, date, closing_date`).
					WithArgs("ev-1").
					WillReturnRows(addEventRow(sqlmock.NewRows(eventCols), "ev-1", 99, 100))
			},
			wantErr: domain.ErrInsufficientCapacity,
		},
		{
			name: "event missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET attendees = attendees \+ \$1`).
					WithArgs(3, "ev-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT id, name, description, date, closing_date`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.IncrementAttendees(ctx, "ev-1", 3)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
