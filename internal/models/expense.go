package models

import (
	"time"
)

type Expense struct {
	ID              string    `firestore:"id" json:"id"`
	UserID          string    `firestore:"userId" json:"userId"`
	Amount          float64   `firestore:"amount" json:"amount"`
	ExpenditureType string    `firestore:"expenditureType" json:"expenditureType"`
	PaymentMethod   string    `firestore:"paymentMethod" json:"paymentMethod"`
	ReferenceNumber string    `firestore:"referenceNumber" json:"referenceNumber"`
	Note            string    `firestore:"note,omitempty" json:"note,omitempty"`
	DateSpent       time.Time `firestore:"dateSpent" json:"dateSpent"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
}
