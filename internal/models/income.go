package models

import (
	"time"
)

// Recurrence periods for income records. The schedule field holds the
// period-dependent descriptor: a HH:MM time for daily, a weekday name
// for weekly, a day-of-month for monthly, a month name for annually.
const (
	PeriodDaily    = "daily"
	PeriodWeekly   = "weekly"
	PeriodMonthly  = "monthly"
	PeriodAnnually = "annually"
)

type Income struct {
	ID        string    `firestore:"id" json:"id"`
	UserID    string    `firestore:"userId" json:"userId"`
	Source    string    `firestore:"source" json:"source"`
	Amount    float64   `firestore:"amount" json:"amount"`
	Period    string    `firestore:"period" json:"period"`
	Schedule  string    `firestore:"schedule" json:"schedule"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

func ValidPeriod(period string) bool {
	switch period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAnnually:
		return true
	}
	return false
}
