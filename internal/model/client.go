package model

import "time"

// Client is a counterparty: a private buyer or seller, or a dealer.
type Client struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email,omitempty" db:"email"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	SocialHandle string    `json:"socialHandle,omitempty" db:"social_handle"`
	Country      string    `json:"country,omitempty" db:"country"`
	Type         string    `json:"type" db:"type"`
	VIP          bool      `json:"vip" db:"vip"`
	Notes        string    `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Client types.
const (
	ClientTypeClient = "client"
	ClientTypeDealer = "dealer"
)

// ValidClientType reports whether t is a known client type.
func ValidClientType(t string) bool {
	return t == ClientTypeClient || t == ClientTypeDealer
}
