package dto

import (
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/models"
)

type UpsertTransactionRequest struct {
	ID           string     `json:"id,omitempty"`
	Amount       *float64   `json:"amount,omitempty"`
	ReceiverName *string    `json:"receiverName,omitempty"`
	Receiver     *string    `json:"receiver,omitempty"`
	PaymentMode  *string    `json:"paymentMode,omitempty"`
	Note         *string    `json:"note,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
}

type TransactionRow struct {
	models.Transaction
	AmountDisplay string `json:"amountDisplay"`
	StatusBadge   string `json:"statusBadge"`
}

type TransactionTableResponse struct {
	Rows      []TransactionRow `json:"rows"`
	Page      int              `json:"page"`
	PageCount int              `json:"pageCount"`
	Total     int              `json:"total"`
}
