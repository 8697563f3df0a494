package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoredTransaction is the persisted form of a parsed SMS: the parser output
// plus an identity, an owner and a creation time.
type StoredTransaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Type      Direction       `json:"type"`
	Category  Category        `json:"category"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewStoredTransaction maps a parsed record onto the persistence contract:
// description becomes the title, the reference ID the notes and the bank name
// the only tag.
func NewStoredTransaction(userID string, tx ParsedTransaction, now time.Time) *StoredTransaction {
	stored := &StoredTransaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     tx.Description,
		Amount:    tx.Amount,
		Type:      tx.Direction,
		Category:  tx.Category,
		Date:      tx.Date,
		Notes:     tx.ReferenceID,
		CreatedAt: now,
	}
	if tx.BankName != "" {
		stored.Tags = []string{tx.BankName}
	}
	return stored
}
