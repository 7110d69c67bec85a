package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trackpay-backend/internal/export"
	"trackpay-backend/internal/models"
	"trackpay-backend/internal/repository"
	"trackpay-backend/internal/services/analytics"
	"trackpay-backend/internal/services/classifier"
	"trackpay-backend/internal/services/synth"
)

// OnboardingKey is the preference key of the "onboarding seen" flag.
const OnboardingKey = "trackpay_onboarding_seen"

var ErrInvalidDate = errors.New("invalid date")

// Preferences stores small persisted flags.
type Preferences interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, v bool) error
}

type Service struct {
	txs      *repository.TransactionRepository
	accounts *repository.AccountRepository
	prefs    Preferences
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(
	txs *repository.TransactionRepository,
	accounts *repository.AccountRepository,
	prefs Preferences,
	log zerolog.Logger,
) *Service {
	return &Service{
		txs:      txs,
		accounts: accounts,
		prefs:    prefs,
		now:      time.Now,
		log:      log.With().Str("component", "dashboard").Logger(),
	}
}

// WithClock overrides the time source used for window filters.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Seed replaces the ledger and the accounts with a synthetic data set.
func (s *Service) Seed(cfg synth.Config) error {
	gen := synth.NewGenerator(cfg)
	accts := gen.Accounts()
	txs := gen.Transactions(accts)
	if err := s.accounts.ReplaceAll(accts); err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}
	if err := s.txs.ReplaceAll(txs); err != nil {
		return fmt.Errorf("seed transactions: %w", err)
	}
	s.log.Info().Int("transactions", len(txs)).Int("accounts", len(accts)).Msg("ledger seeded")
	return nil
}

// SeedDemo loads the fixed January 2025 ledger.
func (s *Service) SeedDemo() error {
	accts := synth.NewGenerator(synth.Config{Seed: 1, Now: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)}).Accounts()
	if err := s.accounts.ReplaceAll(accts); err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}
	if err := s.txs.ReplaceAll(synth.Demo()); err != nil {
		return fmt.Errorf("seed transactions: %w", err)
	}
	s.log.Info().Int("transactions", s.txs.Count()).Msg("demo ledger loaded")
	return nil
}

// all returns every stored transaction, classified and newest first.
func (s *Service) all() []models.ClassifiedTransaction {
	txs := s.txs.List()
	synth.SortNewestFirst(txs)
	return classifier.AnnotateAll(txs)
}

func (s *Service) Transactions(f analytics.Filter) []models.ClassifiedTransaction {
	return analytics.Apply(s.all(), f, s.now())
}

func (s *Service) Summary(f analytics.Filter) analytics.Summary {
	return analytics.Summarize(s.Transactions(f))
}

// Trend is computed over the whole ledger; filters never apply to it.
func (s *Service) Trend() []analytics.TrendBucket {
	return analytics.MonthlyTrend(s.all())
}

func (s *Service) Categories(f analytics.Filter, limit int) []analytics.CategoryShare {
	return analytics.CategoryBreakdown(s.Summary(f), limit)
}

func (s *Service) PaymentTypes(f analytics.Filter) []analytics.CategoryShare {
	return analytics.TypeBreakdown(s.Summary(f))
}

func (s *Service) Options() analytics.Options {
	return analytics.BuildOptions(s.all())
}

// TransactionInput is the payload for a manually entered transaction.
type TransactionInput struct {
	Date              string                   `json:"date"`
	Amount            int64                    `json:"amount" binding:"required"`
	Type              models.TransactionType   `json:"type" binding:"required"`
	Source            string                   `json:"source"`
	Merchant          string                   `json:"merchant" binding:"required"`
	Category          string                   `json:"category"`
	Status            models.TransactionStatus `json:"status"`
	Description       string                   `json:"description"`
	BankAccount       string                   `json:"bank_account"`
	UPIVirtualAddress string                   `json:"upi_virtual_address"`
}

func (in TransactionInput) toTransaction(id string, today time.Time) (models.Transaction, error) {
	date := models.DateOf(today)
	if d := strings.TrimSpace(in.Date); d != "" {
		parsed, err := time.Parse(models.DateLayout, d)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("%w %q, expected %s", ErrInvalidDate, d, models.DateLayout)
		}
		date = parsed
	}
	status := in.Status
	if status == "" {
		status = models.StatusSuccess
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = string(in.Type)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "Uncategorized"
	}
	tx := models.Transaction{
		ID:                id,
		Date:              date,
		Amount:            in.Amount,
		Type:              in.Type,
		Source:            source,
		Merchant:          strings.TrimSpace(in.Merchant),
		Category:          category,
		Status:            status,
		Description:       strings.TrimSpace(in.Description),
		BankAccount:       strings.TrimSpace(in.BankAccount),
		UPIVirtualAddress: strings.TrimSpace(in.UPIVirtualAddress),
	}
	return tx, tx.Validate()
}

func (s *Service) AddTransaction(in TransactionInput) (models.ClassifiedTransaction, error) {
	tx, err := in.toTransaction(uuid.NewString(), s.now())
	if err != nil {
		return models.ClassifiedTransaction{}, err
	}
	if err := s.txs.Add(tx); err != nil {
		return models.ClassifiedTransaction{}, err
	}
	return classifier.Annotate(tx), nil
}

func (s *Service) DeleteTransaction(id string) error {
	return s.txs.Delete(id)
}

// ImportCSV appends the rows of an exported CSV file. Either every row is
// imported or none is.
func (s *Service) ImportCSV(r io.Reader) (int, error) {
	rows, err := export.ReadCSV(r)
	if err != nil {
		return 0, err
	}

	txs := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		tx := models.Transaction{
			ID:          uuid.NewString(),
			Date:        row.Date,
			Amount:      row.Amount,
			Type:        row.Type,
			Source:      string(row.Type),
			Merchant:    row.Merchant,
			Category:    row.Category,
			Status:      models.StatusSuccess,
			Description: row.Description,
			BankAccount: row.Account,
		}
		if row.Type == models.TypeUPI {
			if row.UPISource != "" {
				tx.Source = row.UPISource
			}
			tx.UPIVirtualAddress = "imported@" + classifier.HandleFor(row.UPISource)
		}
		if err := tx.Validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}

	for _, tx := range txs {
		if err := s.txs.Add(tx); err != nil {
			return 0, err
		}
	}
	s.log.Info().Int("rows", len(txs)).Msg("csv imported")
	return len(txs), nil
}

// ExportRows returns the export rows of the transactions visible under f.
func (s *Service) ExportRows(f analytics.Filter) []export.Row {
	return export.RowsFrom(s.Transactions(f))
}

func (s *Service) OnboardingSeen(ctx context.Context) (bool, error) {
	return s.prefs.GetBool(ctx, OnboardingKey)
}

func (s *Service) MarkOnboardingSeen(ctx context.Context) error {
	if err := s.prefs.SetBool(ctx, OnboardingKey, true); err != nil {
		return err
	}
	s.log.Debug().Msg("onboarding dismissed")
	return nil
}
