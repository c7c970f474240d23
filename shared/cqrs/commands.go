package cqrs

// CreatePaymentCommand records a payment against an existing loan. The body is
// passed through undecoded so the command side owns every payload check.
type CreatePaymentCommand struct {
	LoanID      int
	ContentType string
	Body        []byte
}
