package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Ticket and payment identifiers carry a creation-day prefix for
// human-sortable ids plus a random suffix. With 8 characters over a
// 32-character alphabet the suffix holds 40 bits of entropy; global
// uniqueness is still enforced by the database, and the booking service
// regenerates once on a detected collision.
const (
	ticketIDPrefix  = "TKT"
	paymentIDPrefix = "PAY"
	idSuffixLength  = 8
)

// idAlphabet omits easily-confused characters (I, L, O, U).
var idAlphabet = []rune("ABCDEFGHJKMNPQRSTVWXYZ0123456789")

func randomIDSuffix(length int) (string, error) {
	b := make([]rune, length)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = idAlphabet[n.Int64()]
	}
	return string(b), nil
}

func newID(prefix string) (string, error) {
	suffix, err := randomIDSuffix(idSuffixLength)
	if err != nil {
		return "", fmt.Errorf("generate id suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102"), suffix), nil
}

// NewTicketID returns a fresh ticket identifier (TKT-YYYYMMDD-XXXXXXXX).
func NewTicketID() (string, error) {
	return newID(ticketIDPrefix)
}

// NewPaymentID returns a fresh payment identifier (PAY-YYYYMMDD-XXXXXXXX).
func NewPaymentID() (string, error) {
	return newID(paymentIDPrefix)
}

// NewTicketIDs returns quantity fresh ticket identifiers in order.
func NewTicketIDs(quantity int) ([]string, error) {
	ids := make([]string, 0, quantity)
	for i := 0; i < quantity; i++ {
		id, err := NewTicketID()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
