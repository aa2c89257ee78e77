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

const bookingColumns = `id, event_id, first_name, last_name, email, phone, quantity,
		total_price, payment_id, payment_status, booking_date, status, created_at, updated_at`

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{
		DB: db,
	}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (ticket_id or payment_id collision).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateBooked commits the booking insert, its ticket rows, and the event
// attendee increment in one transaction. The conditional increment runs
// first so a full event aborts before any insert; a unique violation on
// ticket or payment identifiers maps to ErrDuplicateIdentifier so the
// caller can regenerate and retry.
func (r *bookingRepository) CreateBooked(ctx context.Context, b *domain.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := incrementAttendeesOn(ctx, tx, b.EventID, b.Quantity)
	if err != nil {
		return fmt.Errorf("increment attendees: %w", err)
	}
	if rows == 0 {
		return domain.ErrInsufficientCapacity
	}

	var phone sql.NullString
	if b.CustomerInfo.Phone != nil {
		phone = sql.NullString{String: *b.CustomerInfo.Phone, Valid: true}
	}
	insertBooking := `
		INSERT INTO bookings (event_id, first_name, last_name, email, phone, quantity,
			total_price, payment_id, payment_status, booking_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insertBooking,
		b.EventID, b.CustomerInfo.FirstName, b.CustomerInfo.LastName, b.CustomerInfo.Email, phone,
		b.Quantity, b.TotalPrice, b.PaymentID, b.PaymentStatus, b.BookingDate, b.Status,
		b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIdentifier
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := insertTickets(ctx, tx, b); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIdentifier
		}
		return fmt.Errorf("insert tickets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking transaction: %w", err)
	}
	committed = true
	return nil
}

// insertTickets bulk-inserts one row per ticket identifier, numbered in
// booking order.
func insertTickets(ctx context.Context, tx *sql.Tx, b *domain.Booking) error {
	if len(b.TicketIDs) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (ticket_id, booking_id, event_id, ticket_no) VALUES `
	args := make([]any, 0, len(b.TicketIDs)*4)
	for i, tid := range b.TicketIDs {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4)
		args = append(args, tid, b.ID, b.EventID, i+1)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var phoneNull sql.NullString
	err := row.Scan(
		&b.ID, &b.EventID, &b.CustomerInfo.FirstName, &b.CustomerInfo.LastName,
		&b.CustomerInfo.Email, &phoneNull, &b.Quantity, &b.TotalPrice,
		&b.PaymentID, &b.PaymentStatus, &b.BookingDate, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phoneNull.Valid {
		b.CustomerInfo.Phone = &phoneNull.String
	}
	return b, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadTicketIDs(ctx, []*domain.Booking{b}); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) ListByCustomerEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE LOWER(email) = LOWER($1)
		ORDER BY booking_date DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadTicketIDs(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// loadTicketIDs populates TicketIDs for all bookings in one query,
// preserving ticket numbering order.
func (r *bookingRepository) loadTicketIDs(ctx context.Context, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	index := make(map[string]*domain.Booking, len(bookings))
	placeholders := make([]string, 0, len(bookings))
	args := make([]any, 0, len(bookings))
	for i, b := range bookings {
		index[b.ID] = b
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, b.ID)
	}
	query := `
		SELECT booking_id, ticket_id FROM tickets
		WHERE booking_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY booking_id, ticket_no
	`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bookingID, ticketID string
		if err := rows.Scan(&bookingID, &ticketID); err != nil {
			return err
		}
		if b, ok := index[bookingID]; ok {
			b.TicketIDs = append(b.TicketIDs, ticketID)
		}
	}
	return rows.Err()
}

func (r *bookingRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Booking, *domain.Ticket, error) {
	query := `
		SELECT b.id, b.event_id, b.first_name, b.last_name, b.email, b.phone, b.quantity,
			b.total_price, b.payment_id, b.payment_status, b.booking_date, b.status,
			b.created_at, b.updated_at,
			t.ticket_no, t.used_at
		FROM tickets t
		JOIN bookings b ON b.id = t.booking_id
		WHERE t.ticket_id = $1
	`
	b := &domain.Booking{}
	t := &domain.Ticket{TicketID: ticketID}
	var phoneNull sql.NullString
	var usedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, ticketID).Scan(
		&b.ID, &b.EventID, &b.CustomerInfo.FirstName, &b.CustomerInfo.LastName,
		&b.CustomerInfo.Email, &phoneNull, &b.Quantity, &b.TotalPrice,
		&b.PaymentID, &b.PaymentStatus, &b.BookingDate, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
		&t.Number, &usedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	if phoneNull.Valid {
		b.CustomerInfo.Phone = &phoneNull.String
	}
	if usedAt.Valid {
		t.UsedAt = &usedAt.Time
	}
	t.BookingID = b.ID
	t.EventID = b.EventID
	return b, t, nil
}

// MarkTicketUsed is a compare-and-set from unused to used; of two
// simultaneous door-scans only one sees a row update.
func (r *bookingRepository) MarkTicketUsed(ctx context.Context, ticketID string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE tickets SET used_at = NOW()
		WHERE ticket_id = $1 AND used_at IS NULL
	`, ticketID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}
