package repository

import (
	"fmt"
	"sync"

	"trackpay-backend/internal/models"
)

// TransactionRepository holds the session's transactions in memory.
// Records are replaced whole, never patched; every read returns a copy.
type TransactionRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]models.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{byID: make(map[string]models.Transaction)}
}

// ReplaceAll swaps the whole collection. Records are validated first; on
// error the previous collection is kept.
func (r *TransactionRepository) ReplaceAll(txs []models.Transaction) error {
	order := make([]string, 0, len(txs))
	byID := make(map[string]models.Transaction, len(txs))
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %q: %w", tx.ID, err)
		}
		if _, dup := byID[tx.ID]; dup {
			return fmt.Errorf("transaction %q: %w", tx.ID, ErrDuplicateID)
		}
		order = append(order, tx.ID)
		byID[tx.ID] = tx
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = order
	r.byID = byID
	return nil
}

func (r *TransactionRepository) Add(tx models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[tx.ID]; exists {
		return fmt.Errorf("transaction %q: %w", tx.ID, ErrDuplicateID)
	}
	r.order = append(r.order, tx.ID)
	r.byID[tx.ID] = tx
	return nil
}

func (r *TransactionRepository) Get(id string) (models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.byID[id]
	if !ok {
		return models.Transaction{}, fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	return tx, nil
}

func (r *TransactionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	return nil
}

// List returns every transaction in insertion order.
func (r *TransactionRepository) List() []models.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Transaction, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *TransactionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
