package accounts

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"trackpay-backend/internal/models"
)

// ErrUnavailable marks a transient provider failure worth retrying.
var ErrUnavailable = errors.New("balance provider unavailable")

// BalanceProvider fetches the current balance of an account from its bank.
type BalanceProvider interface {
	FetchBalance(ctx context.Context, acct models.BankAccount) (int64, error)
}

// SimulatedProvider stands in for a bank feed: it waits Delay and then
// reports the stored balance with a small drift.
type SimulatedProvider struct {
	Delay    time.Duration
	MaxDrift int64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedProvider(delay time.Duration, seed int64) *SimulatedProvider {
	return &SimulatedProvider{
		Delay:    delay,
		MaxDrift: 500,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (p *SimulatedProvider) FetchBalance(ctx context.Context, acct models.BankAccount) (int64, error) {
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
	}

	var drift int64
	if p.MaxDrift > 0 {
		p.mu.Lock()
		drift = p.rng.Int63n(2*p.MaxDrift+1) - p.MaxDrift
		p.mu.Unlock()
	}
	balance := acct.Balance + drift
	if balance < 0 {
		balance = 0
	}
	return balance, nil
}
