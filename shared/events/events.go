package events

import "time"

// Event types
const (
	PaymentCreated = "payment.created"
)

// Stream names
const (
	LoanEventsStream = "loan.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Payment events
type PaymentCreatedEvent struct {
	PaymentID   int    `json:"paymentId"`
	LoanID      int    `json:"loanId"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"paymentDate"`
}
