package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLookupFor(t *testing.T) {
	paidAt := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		order  *Order
		status Status
		paid   bool
	}{
		{name: "paid", order: &Order{ID: uuid.New(), PaidAt: &paidAt}, status: StatusFoundPaid, paid: true},
		{name: "unpaid", order: &Order{ID: uuid.New()}, status: StatusFoundUnpaid},
		{name: "missing", order: nil, status: StatusNotFound},
	}

	messages := map[string]bool{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := LookupFor(tc.order)
			assert.Equal(t, tc.status, l.Status)
			assert.Equal(t, tc.paid, l.Paid())
			assert.NotEmpty(t, l.Message)
			messages[l.Message] = true
		})
	}
	assert.Len(t, messages, 3, "each state has its own message")
}
