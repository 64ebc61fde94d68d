package dto

import (
	"github.com/pennywise-app/pennywise-backend/internal/models"
)

// UpsertIncomeRequest uses pointer fields so an edit can omit fields it
// does not change; merge-write leaves them untouched.
type UpsertIncomeRequest struct {
	ID       string   `json:"id,omitempty"`
	Source   *string  `json:"source,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Period   *string  `json:"period,omitempty"`
	Schedule *string  `json:"schedule,omitempty"`
}

type IncomeRow struct {
	models.Income
	AmountDisplay string `json:"amountDisplay"`
}

type IncomeTableResponse struct {
	Rows      []IncomeRow `json:"rows"`
	Page      int         `json:"page"`
	PageCount int         `json:"pageCount"`
	Total     int         `json:"total"`
}
