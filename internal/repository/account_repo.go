package repository

import (
	"fmt"
	"sync"

	"trackpay-backend/internal/models"
)

// AccountRepository keeps the bank accounts in memory and owns the primary
// account invariant: while the set is non-empty exactly one account is
// primary.
type AccountRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]models.BankAccount
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byID: make(map[string]models.BankAccount)}
}

// ReplaceAll swaps the whole set. When several records claim to be primary
// the first one wins; when none does the first record is promoted.
func (r *AccountRepository) ReplaceAll(accounts []models.BankAccount) error {
	order := make([]string, 0, len(accounts))
	byID := make(map[string]models.BankAccount, len(accounts))
	for _, a := range accounts {
		if _, dup := byID[a.ID]; dup {
			return fmt.Errorf("account %q: %w", a.ID, ErrDuplicateID)
		}
		order = append(order, a.ID)
		byID[a.ID] = a
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = order
	r.byID = byID
	r.settlePrimaryLocked("")
	return nil
}

// Add stores a new account. It becomes primary if it asks to be or if it is
// the first account.
func (r *AccountRepository) Add(a models.BankAccount) (models.BankAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[a.ID]; exists {
		return models.BankAccount{}, fmt.Errorf("account %q: %w", a.ID, ErrDuplicateID)
	}
	r.order = append(r.order, a.ID)
	r.byID[a.ID] = a

	preferred := ""
	if a.IsPrimary {
		preferred = a.ID
	}
	r.settlePrimaryLocked(preferred)
	return r.byID[a.ID], nil
}

// Update replaces the whole record. Clearing IsPrimary on the current primary
// is ignored: primary moves only when another account claims it.
func (r *AccountRepository) Update(a models.BankAccount) (models.BankAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[a.ID]
	if !ok {
		return models.BankAccount{}, fmt.Errorf("account %q: %w", a.ID, ErrNotFound)
	}
	if old.IsPrimary {
		a.IsPrimary = true
	}
	r.byID[a.ID] = a

	preferred := ""
	if a.IsPrimary {
		preferred = a.ID
	}
	r.settlePrimaryLocked(preferred)
	return r.byID[a.ID], nil
}

func (r *AccountRepository) Get(id string) (models.BankAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return models.BankAccount{}, fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	return a, nil
}

// Delete removes an account. Deleting the primary promotes the oldest
// remaining account.
func (r *AccountRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	r.settlePrimaryLocked("")
	return nil
}

// SetPrimary marks id as the primary account and clears every other flag.
func (r *AccountRepository) SetPrimary(id string) (models.BankAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return models.BankAccount{}, fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	r.settlePrimaryLocked(id)
	return r.byID[id], nil
}

func (r *AccountRepository) List() []models.BankAccount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.BankAccount, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Primary returns the primary account, if any.
func (r *AccountRepository) Primary() (models.BankAccount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if a := r.byID[id]; a.IsPrimary {
			return a, true
		}
	}
	return models.BankAccount{}, false
}

// settlePrimaryLocked rewrites every record so exactly one is primary:
// preferred if given, else the first current primary, else the oldest.
func (r *AccountRepository) settlePrimaryLocked(preferred string) {
	if len(r.order) == 0 {
		return
	}
	target := preferred
	if target == "" {
		for _, id := range r.order {
			if r.byID[id].IsPrimary {
				target = id
				break
			}
		}
	}
	if target == "" {
		target = r.order[0]
	}
	for _, id := range r.order {
		a := r.byID[id]
		a.IsPrimary = id == target
		r.byID[id] = a
	}
}
