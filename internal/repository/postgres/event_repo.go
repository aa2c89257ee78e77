package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"ticketbooth/internal/domain"
)

const eventColumns = `id, name, description, date, closing_date, location, price, image_url,
		category, organizer_name, organizer_email, organizer_phone,
		capacity, attendees, status, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// isInvalidUUID reports whether err is Postgres rejecting a malformed
// uuid literal (code 22P02). Path ids are caller-supplied, so a value
// that cannot even be cast to uuid is just an id that does not exist.
func isInvalidUUID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var phoneNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Date, &e.ClosingDate, &e.Location,
		&e.Price, &e.ImageURL, &e.Category,
		&e.Organizer.Name, &e.Organizer.Email, &phoneNull,
		&e.Capacity, &e.Attendees, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phoneNull.Valid {
		e.Organizer.Phone = &phoneNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, date, closing_date, location, price, image_url,
			category, organizer_name, organizer_email, organizer_phone,
			capacity, attendees, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	var phone sql.NullString
	if e.Organizer.Phone != nil {
		phone = sql.NullString{String: *e.Organizer.Phone, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Date, e.ClosingDate, e.Location, e.Price, e.ImageURL,
		e.Category, e.Organizer.Name, e.Organizer.Email, phone,
		e.Capacity, e.Attendees, e.Status, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// publicWhere builds the WHERE clause shared by ListPublic and CountPublic:
// active events in the future, optionally narrowed by category and a
// case-insensitive substring search over name, description and location.
func publicWhere(filter domain.EventFilter) (string, []any) {
	clauses := []string{"status = 'active'", "date >= NOW()"}
	args := []any{}
	n := 1
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", n))
		args = append(args, filter.Category)
		n++
	}
	if filter.Search != "" {
		clauses = append(clauses, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n))
		args = append(args, "%"+filter.Search+"%")
		n++
	}
	return strings.Join(clauses, " AND "), args
}

func (r *eventRepository) ListPublic(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, error) {
	where, args := publicWhere(filter)
	query := fmt.Sprintf(`
		SELECT `+eventColumns+`
		FROM events
		WHERE %s
		ORDER BY date ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) CountPublic(ctx context.Context, filter domain.EventFilter) (int, error) {
	where, args := publicWhere(filter)
	var total int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE `+where, args...).Scan(&total)
	return total, err
}

func (r *eventRepository) ListAll(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events SET name = $1, description = $2, date = $3, closing_date = $4,
			location = $5, price = $6, image_url = $7, category = $8,
			organizer_name = $9, organizer_email = $10, organizer_phone = $11,
			capacity = $12, status = $13, updated_at = NOW()
		WHERE id = $14
	`
	var phone sql.NullString
	if e.Organizer.Phone != nil {
		phone = sql.NullString{String: *e.Organizer.Phone, Valid: true}
	}
	result, err := r.DB.ExecContext(ctx, query,
		e.Name, e.Description, e.Date, e.ClosingDate, e.Location, e.Price, e.ImageURL,
		e.Category, e.Organizer.Name, e.Organizer.Email, phone,
		e.Capacity, e.Status, e.ID,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// incrementAttendeesOn performs the conditional attendee increment on any
// execer (pool or transaction). The WHERE clause is the overbooking guard:
// zero rows affected means the event is missing or the delta does not fit.
func incrementAttendeesOn(ctx context.Context, ex execer, id string, delta int) (int64, error) {
	result, err := ex.ExecContext(ctx, `
		UPDATE events SET attendees = attendees + $1, updated_at = NOW()
		WHERE id = $2 AND attendees + $1 <= capacity
	`, delta, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *eventRepository) IncrementAttendees(ctx context.Context, id string, delta int) error {
	rows, err := incrementAttendeesOn(ctx, r.DB, id, delta)
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInsufficientCapacity
	}
	return nil
}
