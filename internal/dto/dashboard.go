package dto

import (
	"github.com/pennywise-app/pennywise-backend/internal/models"
)

type IncomeSourcesResponse struct {
	Total        float64          `json:"total"`
	TotalDisplay string           `json:"totalDisplay"`
	Sources      []*models.Income `json:"sources"`
}

type MonthBucket struct {
	Month    string  `json:"month"` // "Jan" .. "Dec"
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type IncomeExpenseResponse struct {
	Year              int           `json:"year"`
	Months            []MonthBucket `json:"months"`
	NetSavings        float64       `json:"netSavings"`
	NetSavingsDisplay string        `json:"netSavingsDisplay"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type CategoryShare struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Percentage string  `json:"percentage"` // "42%"
}

type MonthlyExpenditureResponse struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"` // 1-12
	Total        float64         `json:"total"`
	TotalDisplay string          `json:"totalDisplay"`
	Chart        []CategoryTotal `json:"chart"`
	Top          []CategoryShare `json:"top"`
}

type RecentTransactionsResponse struct {
	Transactions []TransactionRow `json:"transactions"`
}
