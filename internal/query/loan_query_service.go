package query

import (
	"strings"

	"github.com/eaglebank/loan-service/shared/cqrs"
	"github.com/eaglebank/loan-service/shared/models"
)

// LoanReader is the read side of the loan store.
type LoanReader interface {
	Loans() []models.Loan
	Payments() []models.Payment
	PaymentsForLoan(loanID int) []models.Payment
}

// LoanQueryService serves loan and payment reads. Queries never fail: an empty
// store yields empty lists.
type LoanQueryService struct {
	store LoanReader
}

func NewLoanQueryService(store LoanReader) *LoanQueryService {
	return &LoanQueryService{store: store}
}

// ListLoans returns loans in insertion order, narrowed by a case-insensitive
// name substring and an exact principal when those filters are set.
func (s *LoanQueryService) ListLoans(q cqrs.ListLoansQuery) []models.Loan {
	loans := s.store.Loans()
	if q.Name == "" && q.Amount == 0 {
		return loans
	}

	name := strings.ToLower(q.Name)
	filtered := make([]models.Loan, 0, len(loans))
	for _, loan := range loans {
		if name != "" && !strings.Contains(strings.ToLower(loan.Name), name) {
			continue
		}
		if q.Amount != 0 && loan.Principal != q.Amount {
			continue
		}
		filtered = append(filtered, loan)
	}
	return filtered
}

func (s *LoanQueryService) ListPayments(cqrs.ListPaymentsQuery) []models.Payment {
	return s.store.Payments()
}

// LoanPayments resolves the payments of one loan. It is recomputed on every
// call rather than stored on the loan.
func (s *LoanQueryService) LoanPayments(q cqrs.LoanPaymentsQuery) []models.Payment {
	return s.store.PaymentsForLoan(q.LoanID)
}
