package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketID_format(t *testing.T) {
	today := time.Now().UTC().Format("20060102")

	id, err := NewTicketID()
	require.NoError(t, err)
	assert.Regexp(t, `^TKT-`+today+`-[A-Z0-9]{8}$`, id)
	assert.NotContains(t, id[len(id)-8:], "I")
	assert.NotContains(t, id[len(id)-8:], "O")
}

func TestNewPaymentID_format(t *testing.T) {
	id, err := NewPaymentID()
	require.NoError(t, err)
	assert.Regexp(t, `^PAY-\d{8}-[A-Z0-9]{8}$`, id)
}

func TestNewTicketIDs_distinct(t *testing.T) {
	ids, err := NewTicketIDs(10)
	require.NoError(t, err)
	require.Len(t, ids, 10)

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
