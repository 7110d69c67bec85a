package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"trackpay-backend/internal/models"
)

type AccountTotals struct {
	Income   int64 `json:"income"`
	Expenses int64 `json:"expenses"`
	Count    int   `json:"count"`
}

// UPITotals accumulates abs(amount) for every transaction routed through an
// app, whatever its sign. Income and Expense split the same amount.
type UPITotals struct {
	Count   int   `json:"count"`
	Amount  int64 `json:"amount"`
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

type Summary struct {
	TotalIncome      int64                    `json:"total_income"`
	TotalExpense     int64                    `json:"total_expense"`
	NetBalance       int64                    `json:"net_balance"`
	IncomeCount      int                      `json:"income_count"`
	ExpenseCount     int                      `json:"expense_count"`
	TransactionCount int                      `json:"transaction_count"`
	CategoryTotals   map[string]int64         `json:"category_totals"`
	TypeTotals       map[string]int64         `json:"type_totals"`
	AccountBreakdown map[string]AccountTotals `json:"account_breakdown"`
	UPIInsights      map[string]UPITotals     `json:"upi_insights"`
}

// Summarize aggregates an already filtered transaction set.
// Category and payment-type totals only count expenses.
func Summarize(txs []models.ClassifiedTransaction) Summary {
	s := Summary{
		CategoryTotals:   map[string]int64{},
		TypeTotals:       map[string]int64{},
		AccountBreakdown: map[string]AccountTotals{},
		UPIInsights:      map[string]UPITotals{},
	}

	for _, tx := range txs {
		abs := tx.AbsAmount()
		s.TransactionCount++

		acct := s.AccountBreakdown[tx.BankAccount]
		acct.Count++

		switch {
		case tx.IsIncome():
			s.TotalIncome += tx.Amount
			s.IncomeCount++
			acct.Income += tx.Amount
		case tx.IsExpense():
			s.TotalExpense += abs
			s.ExpenseCount++
			s.CategoryTotals[tx.Category] += abs
			s.TypeTotals[string(tx.Type)] += abs
			acct.Expenses += abs
		}
		s.AccountBreakdown[tx.BankAccount] = acct

		if tx.Type == models.TypeUPI {
			upi := s.UPIInsights[tx.UPISource.App]
			upi.Count++
			upi.Amount += abs
			if tx.IsIncome() {
				upi.Income += abs
			} else {
				upi.Expense += abs
			}
			s.UPIInsights[tx.UPISource.App] = upi
		}
	}

	s.NetBalance = s.TotalIncome - s.TotalExpense
	return s
}

// Share returns amount as a percentage of total rounded to two places, or 0
// when total is zero.
func Share(amount, total int64) float64 {
	if total == 0 {
		return 0
	}
	pct := decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(total), 2)
	f, _ := pct.Float64()
	return f
}

type CategoryShare struct {
	Category string  `json:"category"`
	Amount   int64   `json:"amount"`
	Percent  float64 `json:"percent"`
}

// CategoryBreakdown orders expense categories by amount, largest first.
// A limit of zero or less keeps every category.
func CategoryBreakdown(s Summary, limit int) []CategoryShare {
	return rankShares(s.CategoryTotals, s.TotalExpense, limit)
}

// TypeBreakdown is CategoryBreakdown for payment types.
func TypeBreakdown(s Summary) []CategoryShare {
	return rankShares(s.TypeTotals, s.TotalExpense, 0)
}

func rankShares(totals map[string]int64, total int64, limit int) []CategoryShare {
	out := make([]CategoryShare, 0, len(totals))
	for name, amount := range totals {
		out = append(out, CategoryShare{
			Category: name,
			Amount:   amount,
			Percent:  Share(amount, total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type TrendBucket struct {
	Label    string    `json:"label"`
	Month    time.Time `json:"month"`
	Income   int64     `json:"income"`
	Expenses int64     `json:"expenses"`
}

// TrendLabelLayout formats a trend bucket's month-year label.
const TrendLabelLayout = "Jan 2006"

// MonthlyTrend buckets the whole, unfiltered transaction set by calendar
// month, oldest first. It never takes a Filter.
func MonthlyTrend(all []models.ClassifiedTransaction) []TrendBucket {
	buckets := map[time.Time]*TrendBucket{}
	for _, tx := range all {
		d := models.DateOf(tx.Date)
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		b, ok := buckets[month]
		if !ok {
			b = &TrendBucket{Label: month.Format(TrendLabelLayout), Month: month}
			buckets[month] = b
		}
		if tx.IsIncome() {
			b.Income += tx.Amount
		} else {
			b.Expenses += tx.AbsAmount()
		}
	}

	out := make([]TrendBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}
