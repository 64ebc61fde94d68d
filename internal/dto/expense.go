package dto

import (
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/models"
)

type UpsertExpenseRequest struct {
	ID              string     `json:"id,omitempty"`
	Amount          *float64   `json:"amount,omitempty"`
	ExpenditureType *string    `json:"expenditureType,omitempty"`
	PaymentMethod   *string    `json:"paymentMethod,omitempty"`
	ReferenceNumber *string    `json:"referenceNumber,omitempty"`
	Note            *string    `json:"note,omitempty"`
	DateSpent       *time.Time `json:"dateSpent,omitempty"`
}

type ExpenseRow struct {
	models.Expense
	AmountDisplay string `json:"amountDisplay"`
}

type ExpenseTableResponse struct {
	Rows      []ExpenseRow `json:"rows"`
	Page      int          `json:"page"`
	PageCount int          `json:"pageCount"`
	Total     int          `json:"total"`
}
