package models

import (
	"time"
)

const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Transaction struct {
	ID              string    `firestore:"id" json:"id"`
	UserID          string    `firestore:"userId" json:"userId"`
	Amount          float64   `firestore:"amount" json:"amount"`
	ReceiverName    string    `firestore:"receiverName" json:"receiverName"`
	Receiver        string    `firestore:"receiver" json:"receiver"` // email-shaped contact, encrypted at rest
	PaymentMode     string    `firestore:"paymentMode" json:"paymentMode"`
	Note            string    `firestore:"note,omitempty" json:"note,omitempty"`
	Status          string    `firestore:"status" json:"status"`
	ReferenceNumber string    `firestore:"referenceNumber" json:"referenceNumber"`
	Date            time.Time `firestore:"date" json:"date"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// StatusBadge maps a transaction status to the badge variant the table
// renders it with.
func StatusBadge(status string) string {
	switch status {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "destructive"
	default:
		return "warning"
	}
}
