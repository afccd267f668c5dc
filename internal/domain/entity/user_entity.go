package entity

import (
	"time"
)

// User is the aggregate root for the credential store.
// Password holds the bcrypt hash and is never serialized.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Phone      string    `json:"phone"`
	Address    Address   `json:"address"`
	Avatar     string    `json:"avatar,omitempty"`
	Role       Role      `json:"role"`
	IsVerified bool      `json:"isVerified"`
	TotalSales int       `json:"totalSales"`
	Rating     float64   `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

const DefaultCountry = "Nigeria"

// WithDefaults fills the country when the rest of the address is present or empty.
func (a Address) WithDefaults() Address {
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return a
}

// UserSummary is the public projection embedded in listings.
type UserSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Rating     float64 `json:"rating"`
	TotalSales int     `json:"totalSales"`
}
