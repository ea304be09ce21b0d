package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the tri-state outcome of a session-to-order lookup. Each state
// drives its own user-facing message.
type Status string

const (
	StatusFoundPaid   Status = "found_paid"
	StatusFoundUnpaid Status = "found_unpaid"
	StatusNotFound    Status = "not_found"
)

var statusMessages = map[Status]string{
	StatusFoundPaid:   "Payment received. Your full document is ready to download.",
	StatusFoundUnpaid: "We found your order but payment has not completed yet. You can download a preview in the meantime.",
	StatusNotFound:    "We could not find an order for this session. Start again from the checker to create one.",
}

// Order is a purchase recorded by the checkout service.
type Order struct {
	ID          uuid.UUID
	SessionID   string
	Product     string
	AmountPence int64
	PaidAt      *time.Time
	CreatedAt   time.Time
}

// IsPaid reports whether payment completed.
func (o *Order) IsPaid() bool {
	return o != nil && o.PaidAt != nil
}

// Lookup is the result of resolving a checkout session.
type Lookup struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Order   *Order `json:"-"`
}

// LookupFor classifies an order; nil means no order was found.
func LookupFor(o *Order) Lookup {
	status := StatusNotFound
	switch {
	case o.IsPaid():
		status = StatusFoundPaid
	case o != nil:
		status = StatusFoundUnpaid
	}
	return Lookup{Status: status, Message: statusMessages[status], Order: o}
}

// Paid reports whether the lookup unlocks the paid document.
func (l Lookup) Paid() bool {
	return l.Status == StatusFoundPaid
}
