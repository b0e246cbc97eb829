package models

import "time"

// Account is one row in poet_data: a registered email with its login token
// and remaining generation credit.
type Account struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Token     string    `json:"token" db:"token"`
	Credit    int       `json:"credit" db:"credit"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DefaultCredit is the generation quota granted to a new account.
const DefaultCredit = 10
