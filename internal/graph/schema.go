package graph

import (
	"fmt"
	"strconv"

	"github.com/eaglebank/loan-service/shared/cqrs"
	"github.com/eaglebank/loan-service/shared/models"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// LoanQuerier defines the read-side operations the schema resolves against.
type LoanQuerier interface {
	ListLoans(cqrs.ListLoansQuery) []models.Loan
	ListPayments(cqrs.ListPaymentsQuery) []models.Payment
	LoanPayments(cqrs.LoanPaymentsQuery) []models.Payment
}

// DateScalar carries calendar dates as YYYY-MM-DD strings.
var DateScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Date",
	Description: "A calendar date in YYYY-MM-DD form",
	Serialize: func(value any) any {
		switch v := value.(type) {
		case models.Date:
			return v.String()
		case *models.Date:
			if v == nil {
				return nil
			}
			return v.String()
		default:
			return nil
		}
	},
	ParseValue: func(value any) any {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		d, err := models.ParseDate(s)
		if err != nil {
			return nil
		}
		return d
	},
	ParseLiteral: func(valueAST ast.Value) any {
		lit, ok := valueAST.(*ast.StringValue)
		if !ok {
			return nil
		}
		d, err := models.ParseDate(lit.Value)
		if err != nil {
			return nil
		}
		return d
	},
})

// NewSchema builds the loans query schema on top of querier.
func NewSchema(querier LoanQuerier) (graphql.Schema, error) {
	paymentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LoanPayment",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.ID),
				Resolve: paymentField(func(p models.Payment) any { return strconv.Itoa(p.ID) }),
			},
			"loanId": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.ID),
				Description: "The ID of the loan referenced",
				Resolve:     paymentField(func(p models.Payment) any { return strconv.Itoa(p.LoanID) }),
			},
			"paymentDate": &graphql.Field{
				Type:        graphql.NewNonNull(DateScalar),
				Description: "The date of the payment",
				Resolve:     paymentField(func(p models.Payment) any { return p.PaymentDate }),
			},
			"amount": &graphql.Field{
				Type:        graphql.Float,
				Description: "The amount of the payment",
				Resolve:     paymentField(func(p models.Payment) any { return p.Amount.InexactFloat64() }),
			},
		},
	})

	loanType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ExistingLoan",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.ID),
				Resolve: loanField(func(l models.Loan) any { return strconv.Itoa(l.ID) }),
			},
			"name": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: loanField(func(l models.Loan) any { return l.Name }),
			},
			"interestRate": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.Float),
				Description: "The interest rate of the loan",
				Resolve:     loanField(func(l models.Loan) any { return l.InterestRate }),
			},
			"principal": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.Int),
				Description: "The loan amount given as principal",
				Resolve:     loanField(func(l models.Loan) any { return l.Principal }),
			},
			"dueDate": &graphql.Field{
				Type:        graphql.NewNonNull(DateScalar),
				Description: "Due date of the loan",
				Resolve:     loanField(func(l models.Loan) any { return l.DueDate }),
			},
			"payments": &graphql.Field{
				Type: graphql.NewList(paymentType),
				Resolve: loanField(func(l models.Loan) any {
					return querier.LoanPayments(cqrs.LoanPaymentsQuery{LoanID: l.ID})
				}),
			},
		},
	})

	loanFilter := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LoanFilter",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"amount": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"loans": &graphql.Field{
				Type: graphql.NewList(loanType),
				Args: graphql.FieldConfigArgument{
					"filters": &graphql.ArgumentConfig{Type: loanFilter},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return querier.ListLoans(loanFilterArg(p.Args["filters"])), nil
				},
			},
			"loanPayments": &graphql.Field{
				Type: graphql.NewList(paymentType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return querier.ListPayments(cqrs.ListPaymentsQuery{}), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to build graphql schema: %w", err)
	}
	return schema, nil
}

// loanFilterArg converts the optional LoanFilter input into a query.
// Empty names and zero amounts are treated as absent.
func loanFilterArg(raw any) cqrs.ListLoansQuery {
	var q cqrs.ListLoansQuery
	filters, ok := raw.(map[string]any)
	if !ok {
		return q
	}
	if name, ok := filters["name"].(string); ok {
		q.Name = name
	}
	if amount, ok := filters["amount"].(int); ok {
		q.Amount = amount
	}
	return q
}

func loanField(get func(models.Loan) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		switch src := p.Source.(type) {
		case models.Loan:
			return get(src), nil
		case *models.Loan:
			return get(*src), nil
		default:
			return nil, fmt.Errorf("unexpected loan source %T", p.Source)
		}
	}
}

func paymentField(get func(models.Payment) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		switch src := p.Source.(type) {
		case models.Payment:
			return get(src), nil
		case *models.Payment:
			return get(*src), nil
		default:
			return nil, fmt.Errorf("unexpected payment source %T", p.Source)
		}
	}
}
