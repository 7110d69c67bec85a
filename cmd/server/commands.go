package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trackpay-backend/internal/config"
	"trackpay-backend/internal/export"
	"trackpay-backend/internal/repository"
	"trackpay-backend/internal/services/analytics"
	"trackpay-backend/internal/services/dashboard"
	"trackpay-backend/internal/services/synth"
)

type ledgerFlags struct {
	demo     bool
	window   string
	account  string
	category string
	txType   string
	search   string
}

func (f *ledgerFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.demo, "demo", false, "use the fixed January 2025 demo ledger instead of a generated one")
	cmd.Flags().StringVar(&f.window, "window", "all", "time window: all, week, month or year")
	cmd.Flags().StringVar(&f.account, "account", "", "bank account name")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.txType, "type", "", "payment type, e.g. UPI")
	cmd.Flags().StringVar(&f.search, "search", "", "text matched against merchant and description")
}

func (f *ledgerFlags) filter() (analytics.Filter, error) {
	w, err := analytics.ParseWindow(f.window)
	if err != nil {
		return analytics.Filter{}, err
	}
	return analytics.Filter{
		Window:   w,
		Account:  f.account,
		Category: f.category,
		Type:     f.txType,
		Search:   f.search,
	}, nil
}

// loadLedger builds an in-memory dashboard without the settings database.
func (f *ledgerFlags) loadLedger(configPath string) (*dashboard.Service, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	svc := dashboard.NewService(repository.NewTransactionRepository(), repository.NewAccountRepository(), nil, zerolog.Nop())
	if f.demo {
		svc.WithClock(func() time.Time { return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) })
		return svc, svc.SeedDemo()
	}
	seed := cfg.Seed.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	err = svc.Seed(synth.Config{
		Count:             cfg.Seed.Count,
		IncomeProbability: cfg.Seed.IncomeProbability,
		WindowDays:        cfg.Seed.WindowDays,
		Seed:              seed,
	})
	return svc, err
}

func newExportCmd(configPath *string) *cobra.Command {
	var (
		flags  ledgerFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered ledger as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.filter()
			if err != nil {
				return err
			}
			svc, err := flags.loadLedger(*configPath)
			if err != nil {
				return err
			}
			rows := svc.ExportRows(f)

			var write func(io.Writer, []export.Row) error
			switch strings.ToLower(format) {
			case "csv":
				write = export.WriteCSV
			case "xlsx":
				write = export.WriteXLSX
			default:
				return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
			}

			if out == "" || out == "-" {
				return write(cmd.OutOrStdout(), rows)
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := write(file, rows); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", len(rows), out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func newSummaryCmd(configPath *string) *cobra.Command {
	var (
		flags ledgerFlags
		limit int
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the analytics summary as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.filter()
			if err != nil {
				return err
			}
			svc, err := flags.loadLedger(*configPath)
			if err != nil {
				return err
			}
			report := struct {
				Filter     analytics.Filter          `json:"filter"`
				Summary    analytics.Summary         `json:"summary"`
				Categories []analytics.CategoryShare `json:"categories"`
				Trend      []analytics.TrendBucket   `json:"trend"`
			}{
				Filter:     f,
				Summary:    svc.Summary(f),
				Categories: svc.Categories(f, limit),
				Trend:      svc.Trend(),
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 6, "number of categories to list, 0 for all")
	return cmd
}
