package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Gender     Gender `json:"gender"`
	Age        int    `json:"age"`
	NationalID string `json:"national_id"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Password   string `json:"password,omitempty"`
	Active     bool   `json:"active"`
}

type Account struct {
	ID             ID              `json:"id,omitempty"`
	Number         string          `json:"number"`
	Type           AccountType     `json:"type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
	CustomerID     ID              `json:"customer_id"`
	CreatedAt      *time.Time      `json:"created_at,omitempty"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

type Movement struct {
	ID          ID              `json:"id"`
	AccountRef  string          `json:"account_ref"`
	Type        MovementType    `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Timestamp   time.Time       `json:"timestamp"`
	CustomerID  ID              `json:"customer_id,omitempty"`
	Description string          `json:"description,omitempty"`
}

// MovementInput is what an operator submits; the backend computes the
// resulting balance and timestamp.
type MovementInput struct {
	AccountNumber string          `json:"account_number"`
	Type          MovementType    `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

// MovementFilter scopes a customer's movements to an optional date range.
type MovementFilter struct {
	CustomerID ID
	From       *time.Time
	To         *time.Time
}

// IsZero reports that no customer is selected.
func (f MovementFilter) IsZero() bool { return f.CustomerID.IsZero() }
