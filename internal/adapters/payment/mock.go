// Package payment holds gateway adapters. Only the mock gateway exists
// for now; a real processor slots in behind the same interface.
package payment

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"ticketbooth/internal/domain"
)

// declineCard is the well-known test card number that always declines.
const declineCard = "4000000000000002"

var (
	cardNumberRegexp = regexp.MustCompile(`^\d{13,19}$`)
	expiryRegexp     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRegexp        = regexp.MustCompile(`^\d{3,4}$`)
)

type mockGateway struct{}

// NewMockGateway returns a deterministic stand-in for a card processor.
// It validates card shape, declines the designated test card and
// approves everything else with a fresh gateway reference.
func NewMockGateway() domain.PaymentGateway {
	return &mockGateway{}
}

func (g *mockGateway) Charge(ctx context.Context, amount int64, method domain.PaymentMethod) (*domain.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	card := strings.ReplaceAll(method.CardNumber, " ", "")
	if !cardNumberRegexp.MatchString(card) ||
		!expiryRegexp.MatchString(method.ExpiryDate) ||
		!cvvRegexp.MatchString(method.CVV) {
		return nil, domain.ErrPaymentFailed
	}
	if card == declineCard {
		return nil, domain.ErrPaymentFailed
	}
	return &domain.PaymentResult{Reference: "ch_" + uuid.NewString()}, nil
}
