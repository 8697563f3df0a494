package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money entered or left the account.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

func (d Direction) String() string {
	return string(d)
}

// UnknownBank is the bank name reported for unrecognised SMS senders.
const UnknownBank = "Unknown Bank"

// ParsedTransaction is the structured record extracted from one bank SMS.
// It is a value: the parser never mutates a record after returning it.
type ParsedTransaction struct {
	Amount              decimal.Decimal `json:"amount"`
	Direction           Direction       `json:"direction"`
	Category            Category        `json:"category"`
	Description         string          `json:"description"`
	Date                time.Time       `json:"date"`
	AccountNumberMasked string          `json:"accountNumberMasked,omitempty"`
	ReferenceID         string          `json:"referenceId,omitempty"`
	Merchant            string          `json:"merchant,omitempty"`
	BankName            string          `json:"bankName"`
	Grammar             string          `json:"grammar"`
}

// IsIncome is a convenience for Direction == DirectionIncome.
func (t ParsedTransaction) IsIncome() bool {
	return t.Direction == DirectionIncome
}
