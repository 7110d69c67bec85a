package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trackpay-backend/internal/logger"
	"trackpay-backend/internal/models"
	"trackpay-backend/internal/repository"
)

type Options struct {
	// Retries caps the extra attempts after the first failed fetch.
	Retries         uint64
	Timeout         time.Duration
	InitialInterval time.Duration
	Now             func() time.Time
}

func (o Options) withDefaults() Options {
	if o.InitialInterval <= 0 {
		o.InitialInterval = 200 * time.Millisecond
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Service struct {
	repo     *repository.AccountRepository
	provider BalanceProvider
	opts     Options
	log      zerolog.Logger
}

func NewService(repo *repository.AccountRepository, provider BalanceProvider, opts Options, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		opts:     opts.withDefaults(),
		log:      log.With().Str("component", "accounts").Logger(),
	}
}

func (s *Service) List() []models.BankAccount {
	return s.repo.List()
}

// Primary returns the primary account; ok is false only when there are no
// accounts.
func (s *Service) Primary() (models.BankAccount, bool) {
	return s.repo.Primary()
}

func (s *Service) Get(id string) (models.BankAccount, error) {
	return s.repo.Get(id)
}

// Seed replaces every account, keeping the primary invariant.
func (s *Service) Seed(accounts []models.BankAccount) error {
	return s.repo.ReplaceAll(accounts)
}

func (s *Service) Create(in models.AccountInput) (models.BankAccount, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return models.BankAccount{}, err
	}
	acct, err := s.repo.Add(in.ToAccount(uuid.NewString(), s.opts.Now().UTC()))
	if err != nil {
		return models.BankAccount{}, err
	}
	s.log.Info().Str("account_id", acct.ID).Str("bank", acct.BankName).Bool("primary", acct.IsPrimary).Msg("account created")
	return acct, nil
}

// Update replaces the whole record from the form input.
func (s *Service) Update(id string, in models.AccountInput) (models.BankAccount, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return models.BankAccount{}, err
	}
	acct, err := s.repo.Update(in.ToAccount(id, s.opts.Now().UTC()))
	if err != nil {
		return models.BankAccount{}, err
	}
	s.log.Info().Str("account_id", id).Msg("account updated")
	return acct, nil
}

func (s *Service) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.log.Info().Str("account_id", id).Msg("account deleted")
	return nil
}

func (s *Service) SetPrimary(id string) (models.BankAccount, error) {
	return s.repo.SetPrimary(id)
}

// LowBalance lists the accounts sitting below their alert threshold.
func (s *Service) LowBalance() []models.BankAccount {
	var out []models.BankAccount
	for _, a := range s.repo.List() {
		if a.IsLowBalance() {
			out = append(out, a)
		}
	}
	return out
}

// RefreshBalance fetches a fresh balance, retrying transient failures with
// exponential backoff. It stops as soon as ctx is done.
func (s *Service) RefreshBalance(ctx context.Context, id string) (models.BankAccount, error) {
	acct, err := s.repo.Get(id)
	if err != nil {
		return models.BankAccount{}, err
	}
	log := logger.WithFields(s.log, map[string]any{"account_id": id, "bank": acct.BankName})
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	var balance int64
	op := func() error {
		b, err := s.provider.FetchBalance(ctx, acct)
		if err == nil {
			balance = b
			return nil
		}
		if ctx.Err() != nil || !errors.Is(err, ErrUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.opts.InitialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, s.opts.Retries), ctx)

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("balance fetch failed")
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return models.BankAccount{}, fmt.Errorf("refresh balance %q: %w", id, err)
	}

	// Re-read so edits made while the fetch was in flight are kept.
	latest, err := s.repo.Get(id)
	if err != nil {
		return models.BankAccount{}, err
	}
	latest.Balance = balance
	latest.LastUpdated = s.opts.Now().UTC()
	updated, err := s.repo.Update(latest)
	if err != nil {
		return models.BankAccount{}, err
	}
	log.Info().Int64("balance", balance).Msg("balance refreshed")
	return updated, nil
}
