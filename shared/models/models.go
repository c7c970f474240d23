package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go out as JSON numbers, the way clients of the payments API read them.
	decimal.MarshalJSONWithoutQuotes = true
}

type Loan struct {
	ID           int     `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	InterestRate float64 `json:"interest_rate" yaml:"interest_rate"`
	Principal    int     `json:"principal" yaml:"principal"`
	DueDate      Date    `json:"due_date" yaml:"due_date"`
}

type Payment struct {
	ID          int             `json:"id"`
	LoanID      int             `json:"loan_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate Date            `json:"payment_date"`
}
