package cqrs

// ---------- Loan queries ----------

// ListLoansQuery filters loans. A zero field means "no filter" for that field.
type ListLoansQuery struct {
	Name   string
	Amount int
}

// ---------- Payment queries ----------

// ListPaymentsQuery fetches every recorded payment.
type ListPaymentsQuery struct{}

// LoanPaymentsQuery fetches the payments recorded against one loan.
type LoanPaymentsQuery struct {
	LoanID int
}
