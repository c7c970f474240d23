package repository

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/eaglebank/loan-service/shared/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/loans.yaml
var defaultFixtures []byte

// Fixtures is the on-disk shape of a seed file. Payment loan ids refer to the
// ids used inside the file, not to ids the store will assign.
type Fixtures struct {
	Loans    []models.Loan    `yaml:"loans"`
	Payments []paymentFixture `yaml:"payments"`
}

type paymentFixture struct {
	LoanID      int         `yaml:"loan_id"`
	Amount      string      `yaml:"amount"`
	PaymentDate models.Date `yaml:"payment_date"`
}

// DefaultFixtures returns the embedded demo data set.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// LoadFixtures reads and parses a YAML seed file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// Seed adds the fixture loans and payments to the store. Nothing is written
// unless every payment references a loan declared in the same file.
func (s *Store) Seed(f *Fixtures) error {
	declared := make(map[int]bool, len(f.Loans))
	for _, loan := range f.Loans {
		if declared[loan.ID] {
			return fmt.Errorf("fixture loan id %d declared twice", loan.ID)
		}
		declared[loan.ID] = true
	}
	amounts := make([]decimal.Decimal, len(f.Payments))
	for i, p := range f.Payments {
		if !declared[p.LoanID] {
			return fmt.Errorf("fixture payment %d references unknown loan %d", i, p.LoanID)
		}
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return fmt.Errorf("fixture payment %d has invalid amount %q: %w", i, p.Amount, err)
		}
		amounts[i] = amount
	}

	assigned := make(map[int]int, len(f.Loans))
	for _, loan := range f.Loans {
		fileID := loan.ID
		assigned[fileID] = s.AddLoan(loan).ID
	}
	for i, p := range f.Payments {
		s.AddPayment(models.Payment{
			LoanID:      assigned[p.LoanID],
			Amount:      amounts[i],
			PaymentDate: p.PaymentDate,
		})
	}
	return nil
}
