package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fjacquet/sms-ledger/internal/models"
)

// MemoryStore is an in-process TransactionStore for tests and throwaway runs.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]models.StoredTransaction
	order []string

	// SaveError, when set, is returned by every Save call.
	SaveError error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]models.StoredTransaction)}
}

// Save stores a copy of tx.
func (m *MemoryStore) Save(ctx context.Context, tx *models.StoredTransaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.SaveError != nil {
		return m.SaveError
	}
	if err := validate(tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byID == nil {
		m.byID = make(map[string]models.StoredTransaction)
	}
	if _, exists := m.byID[tx.ID]; exists {
		return fmt.Errorf("insert transaction %s: %w", tx.ID, ErrDuplicateID)
	}
	m.byID[tx.ID] = copyTransaction(*tx)
	m.order = append(m.order, tx.ID)
	return nil
}

// Get returns a copy of the stored transaction.
func (m *MemoryStore) Get(ctx context.Context, id string) (*models.StoredTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	tx, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get transaction %s: %w", id, ErrNotFound)
	}
	out := copyTransaction(tx)
	return &out, nil
}

// ListByUser returns the user's transactions, newest transaction date first.
func (m *MemoryStore) ListByUser(ctx context.Context, userID string) ([]models.StoredTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	var out []models.StoredTransaction
	for _, id := range m.order {
		if tx := m.byID[id]; tx.UserID == userID {
			out = append(out, copyTransaction(tx))
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Len returns the number of stored transactions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

func copyTransaction(tx models.StoredTransaction) models.StoredTransaction {
	if tx.Tags != nil {
		tx.Tags = append([]string(nil), tx.Tags...)
	}
	return tx
}
