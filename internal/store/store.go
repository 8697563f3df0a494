// Package store provides functionality for storing and retrieving application data.
package store

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

var (
	// ErrNotFound is returned when no transaction has the requested ID.
	ErrNotFound = errors.New("transaction not found")
	// ErrDuplicateID is returned when saving a transaction whose ID already exists.
	ErrDuplicateID = errors.New("transaction id already exists")
	// ErrInvalidTransaction is returned for records missing an ID or owner.
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// TransactionStore persists stored transactions. Implementations are safe for
// concurrent use.
type TransactionStore interface {
	Save(ctx context.Context, tx *models.StoredTransaction) error
	Get(ctx context.Context, id string) (*models.StoredTransaction, error)
	// ListByUser returns a user's transactions, newest transaction date first.
	ListByUser(ctx context.Context, userID string) ([]models.StoredTransaction, error)
	Close() error
}

// Open creates the store selected by driver.
func Open(driver, path string, logger logging.Logger) (TransactionStore, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteStore(path, logger)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}

func validate(tx *models.StoredTransaction) error {
	if tx == nil {
		return fmt.Errorf("%w: nil transaction", ErrInvalidTransaction)
	}
	if tx.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTransaction)
	}
	if tx.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidTransaction)
	}
	return nil
}
