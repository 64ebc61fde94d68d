package models

import (
	"time"
)

type User struct {
	UID               string    `firestore:"uid" json:"uid"`
	Name              string    `firestore:"name" json:"name"`
	Email             string    `firestore:"email" json:"email"`
	StoreName         string    `firestore:"storeName" json:"storeName,omitempty"`
	Location          string    `firestore:"location" json:"location,omitempty"`
	Currency          string    `firestore:"currency" json:"currency,omitempty"`
	Phone             string    `firestore:"phone" json:"phone,omitempty"`
	Address           string    `firestore:"address" json:"address,omitempty"`
	IsProfileComplete bool      `firestore:"isProfileComplete" json:"isProfileComplete"`
	CreatedAt         time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `firestore:"updatedAt" json:"updatedAt"`
}
