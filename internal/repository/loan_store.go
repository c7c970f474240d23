package repository

import (
	"sync"

	"github.com/eaglebank/loan-service/shared/models"
)

// Store is the in-memory owner of every loan and payment. Mutations are
// serialized behind the write lock; reads copy out under the read lock so a
// caller never sees half of a cascade delete.
type Store struct {
	mu       sync.RWMutex
	loans    []models.Loan
	payments []models.Payment

	// high-water marks, so an id is never handed out twice even after deletes
	lastLoanID    int
	lastPaymentID int
}

func NewStore() *Store {
	return &Store{
		loans:    []models.Loan{},
		payments: []models.Payment{},
	}
}

// AddLoan stores loan under a freshly assigned id and returns the stored record.
// Any ID already set on loan is ignored.
func (s *Store) AddLoan(loan models.Loan) models.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastLoanID = nextID(s.lastLoanID, s.loans, func(l models.Loan) int { return l.ID })
	loan.ID = s.lastLoanID
	s.loans = append(s.loans, loan)
	return loan
}

// AddPayment stores payment under a freshly assigned id and returns the stored
// record. The payment is not validated here.
func (s *Store) AddPayment(payment models.Payment) models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastPaymentID = nextID(s.lastPaymentID, s.payments, func(p models.Payment) int { return p.ID })
	payment.ID = s.lastPaymentID
	s.payments = append(s.payments, payment)
	return payment
}

// DeleteLoan removes the loan and all of its payments. It reports false, and
// changes nothing, when no loan has the given id.
func (s *Store) DeleteLoan(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept, removed := without(s.loans, func(l models.Loan) bool { return l.ID == id })
	if !removed {
		return false
	}
	s.loans = kept
	s.payments, _ = without(s.payments, func(p models.Payment) bool { return p.LoanID == id })
	return true
}

// DeletePayment removes a single payment. It reports false when the id is unknown.
func (s *Store) DeletePayment(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept, removed := without(s.payments, func(p models.Payment) bool { return p.ID == id })
	if !removed {
		return false
	}
	s.payments = kept
	return true
}

// Loans returns a snapshot of all loans in insertion order.
func (s *Store) Loans() []models.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Loan, len(s.loans))
	copy(out, s.loans)
	return out
}

// Payments returns a snapshot of all payments in insertion order.
func (s *Store) Payments() []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Payment, len(s.payments))
	copy(out, s.payments)
	return out
}

func (s *Store) GetLoan(id int) (models.Loan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, loan := range s.loans {
		if loan.ID == id {
			return loan, true
		}
	}
	return models.Loan{}, false
}

// PaymentsForLoan returns the payments recorded against loanID in insertion order.
func (s *Store) PaymentsForLoan(loanID int) []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Payment{}
	for _, p := range s.payments {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out
}

func nextID[T any](last int, items []T, id func(T) int) int {
	highest := last
	for _, item := range items {
		if v := id(item); v > highest {
			highest = v
		}
	}
	return highest + 1
}

// without returns a new slice holding the items that do not match drop, and
// whether anything was dropped. The input slice is left untouched.
func without[T any](items []T, drop func(T) bool) ([]T, bool) {
	kept := make([]T, 0, len(items))
	removed := false
	for _, item := range items {
		if drop(item) {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	return kept, removed
}
