package query

import (
	"testing"
	"time"

	"github.com/eaglebank/loan-service/internal/repository"
	"github.com/eaglebank/loan-service/shared/cqrs"
	"github.com/eaglebank/loan-service/shared/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededService(t *testing.T) (*LoanQueryService, *repository.Store) {
	t.Helper()
	store := repository.NewStore()
	due := models.NewDate(2025, time.March, 1)
	store.AddLoan(models.Loan{Name: "Alice Capital", InterestRate: 5, Principal: 1000, DueDate: due})
	store.AddLoan(models.Loan{Name: "Bob's Bakery", InterestRate: 3.5, Principal: 1000, DueDate: due})
	store.AddLoan(models.Loan{Name: "Malik Farms", InterestRate: 4, Principal: 2500, DueDate: due})
	return NewLoanQueryService(store), store
}

func loanNames(loans []models.Loan) []string {
	names := make([]string, len(loans))
	for i, l := range loans {
		names[i] = l.Name
	}
	return names
}

func TestListLoans(t *testing.T) {
	tests := []struct {
		name  string
		query cqrs.ListLoansQuery
		want  []string
	}{
		{
			name:  "no filter returns everything in insertion order",
			query: cqrs.ListLoansQuery{},
			want:  []string{"Alice Capital", "Bob's Bakery", "Malik Farms"},
		},
		{
			name:  "name filter is a case-insensitive substring match",
			query: cqrs.ListLoansQuery{Name: "ali"},
			want:  []string{"Alice Capital", "Malik Farms"},
		},
		{
			name:  "upper case filter",
			query: cqrs.ListLoansQuery{Name: "BAKERY"},
			want:  []string{"Bob's Bakery"},
		},
		{
			name:  "amount filter matches principal exactly",
			query: cqrs.ListLoansQuery{Amount: 1000},
			want:  []string{"Alice Capital", "Bob's Bakery"},
		},
		{
			name:  "filters combine as AND",
			query: cqrs.ListLoansQuery{Name: "ali", Amount: 1000},
			want:  []string{"Alice Capital"},
		},
		{
			name:  "no match",
			query: cqrs.ListLoansQuery{Name: "zzz"},
			want:  []string{},
		},
		{
			name:  "amount close to a principal does not match",
			query: cqrs.ListLoansQuery{Amount: 999},
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := seededService(t)
			assert.Equal(t, tt.want, loanNames(svc.ListLoans(tt.query)))
		})
	}
}

func TestListLoans_EmptyStore(t *testing.T) {
	svc := NewLoanQueryService(repository.NewStore())

	loans := svc.ListLoans(cqrs.ListLoansQuery{Name: "x"})
	assert.NotNil(t, loans)
	assert.Empty(t, loans)
	assert.Empty(t, svc.ListPayments(cqrs.ListPaymentsQuery{}))
	assert.Empty(t, svc.LoanPayments(cqrs.LoanPaymentsQuery{LoanID: 1}))
}

func TestPayments(t *testing.T) {
	svc, store := seededService(t)
	paid := models.NewDate(2025, time.March, 19)
	p1 := store.AddPayment(models.Payment{LoanID: 1, Amount: decimal.NewFromInt(100), PaymentDate: paid})
	p2 := store.AddPayment(models.Payment{LoanID: 2, Amount: decimal.NewFromInt(200), PaymentDate: paid})
	p3 := store.AddPayment(models.Payment{LoanID: 1, Amount: decimal.NewFromInt(300), PaymentDate: paid})

	assert.Equal(t, []models.Payment{p1, p2, p3}, svc.ListPayments(cqrs.ListPaymentsQuery{}))
	assert.Equal(t, []models.Payment{p1, p3}, svc.LoanPayments(cqrs.LoanPaymentsQuery{LoanID: 1}))
	assert.Empty(t, svc.LoanPayments(cqrs.LoanPaymentsQuery{LoanID: 3}))

	// the relationship is derived, so a later write shows up on the next read
	p4 := store.AddPayment(models.Payment{LoanID: 3, Amount: decimal.NewFromInt(50), PaymentDate: paid})
	got := svc.LoanPayments(cqrs.LoanPaymentsQuery{LoanID: 3})
	require.Len(t, got, 1)
	assert.Equal(t, p4, got[0])
}
