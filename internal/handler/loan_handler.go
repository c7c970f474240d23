package handler

import (
	"net/http"
	"strconv"

	"github.com/eaglebank/loan-service/shared/cqrs"
	"github.com/eaglebank/loan-service/shared/middleware"
	"github.com/eaglebank/loan-service/shared/models"
	"github.com/gin-gonic/gin"
)

// PaymentCommander defines the write-side operations used by LoanHandler.
type PaymentCommander interface {
	CreatePayment(cqrs.CreatePaymentCommand) (*models.Payment, error)
}

// LoanHandler handles the REST side of the loan API.
type LoanHandler struct {
	commands PaymentCommander
}

type CreatePaymentResponse struct {
	Message string          `json:"message"`
	Payment *models.Payment `json:"payment"`
}

func NewLoanHandler(commands PaymentCommander) *LoanHandler {
	return &LoanHandler{commands: commands}
}

func (h *LoanHandler) Home(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to the Loan Application API")
}

func (h *LoanHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreatePayment hands the raw body to the command service untouched; every
// check, including content type and JSON shape, happens there.
func (h *LoanHandler) CreatePayment(c *gin.Context) {
	rawID := c.Param("loan_id")
	loanID, err := strconv.Atoi(rawID)
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "Loan with ID "+rawID+" not found")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	payment, err := h.commands.CreatePayment(cqrs.CreatePaymentCommand{
		LoanID:      loanID,
		ContentType: c.GetHeader("Content-Type"),
		Body:        body,
	})
	if err != nil {
		respondWithCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreatePaymentResponse{
		Message: "Payment created successfully",
		Payment: payment,
	})
}

func respondWithCommandError(c *gin.Context, err error) {
	switch cqrs.KindOf(err) {
	case cqrs.NotFound:
		middleware.RespondWithError(c, http.StatusNotFound, err.Error())
	case cqrs.InvalidRequest:
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		middleware.RespondWithInternalError(c, err.Error())
	}
}
