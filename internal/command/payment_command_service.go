package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/eaglebank/loan-service/shared/cqrs"
	"github.com/eaglebank/loan-service/shared/events"
	"github.com/eaglebank/loan-service/shared/middleware"
	"github.com/eaglebank/loan-service/shared/models"
	"github.com/eaglebank/loan-service/shared/utils"
)

// PaymentStore is the part of the loan store the command side writes through.
type PaymentStore interface {
	GetLoan(id int) (models.Loan, bool)
	AddPayment(models.Payment) models.Payment
}

// EventPublisher is satisfied by *events.Publisher and events.NopPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// PaymentCommandService validates and records loan payments.
type PaymentCommandService struct {
	store     PaymentStore
	publisher EventPublisher
}

func NewPaymentCommandService(store PaymentStore, publisher EventPublisher) *PaymentCommandService {
	return &PaymentCommandService{store: store, publisher: publisher}
}

// createPaymentPayload mirrors the request body. RawMessage keeps "present but
// null" distinct from "absent" so the two get different errors.
type createPaymentPayload struct {
	Amount json.RawMessage `json:"amount" validate:"required"`
	Date   json.RawMessage `json:"date" validate:"required"`
}

// CreatePayment records a payment against an existing loan. Checks run in a
// fixed order and the first failure is returned as a *cqrs.Error: loan
// existence, content type, payload shape, required fields, amount, date.
// Nothing is written unless every check passes.
func (s *PaymentCommandService) CreatePayment(cmd cqrs.CreatePaymentCommand) (payment *models.Payment, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic while creating payment for loan %d: %v", cmd.LoanID, r)
			payment = nil
			err = cqrs.Internal(fmt.Errorf("%v", r))
		}
	}()

	if _, ok := s.store.GetLoan(cmd.LoanID); !ok {
		return nil, cqrs.NotFoundf("Loan with ID %d not found", cmd.LoanID)
	}

	if !utils.IsJSONContentType(cmd.ContentType) {
		return nil, cqrs.Invalidf("Content-Type must be application/json")
	}

	fields, err := decodeObject(cmd.Body)
	if err != nil {
		return nil, err
	}

	payload := createPaymentPayload{Amount: fields["amount"], Date: fields["date"]}
	if missing := middleware.MissingFields(middleware.ValidateRequest(payload)); len(missing) > 0 {
		return nil, cqrs.Invalidf("Missing required fields: %s", strings.Join(missing, ", "))
	}

	amount, err := utils.ParseAmount(payload.Amount)
	if err != nil {
		return nil, cqrs.Invalidf("Amount must be a valid number")
	}
	if !amount.IsPositive() {
		return nil, cqrs.Invalidf("Amount must be greater than 0")
	}

	paymentDate, err := utils.ParseDate(payload.Date)
	if err != nil {
		return nil, cqrs.Invalidf("Invalid date format. Use YYYY-MM-DD")
	}

	created := s.store.AddPayment(models.Payment{
		LoanID:      cmd.LoanID,
		Amount:      amount,
		PaymentDate: paymentDate,
	})

	if err := s.publisher.Publish(context.Background(), events.LoanEventsStream, events.PaymentCreated, events.PaymentCreatedEvent{
		PaymentID:   created.ID,
		LoanID:      created.LoanID,
		Amount:      created.Amount.String(),
		PaymentDate: created.PaymentDate.String(),
	}); err != nil {
		log.Printf("Failed to publish payment.created event: %v", err)
	}

	return &created, nil
}

// decodeObject parses body as a JSON object. Empty bodies, null and {} are
// reported as "no data"; anything that is not an object is malformed.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, cqrs.Invalidf("No data provided")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, cqrs.Invalidf("Invalid JSON payload")
	}
	if len(fields) == 0 {
		return nil, cqrs.Invalidf("No data provided")
	}
	return fields, nil
}
