package analytics

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackpay-backend/internal/models"
	"trackpay-backend/internal/services/classifier"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(id int, when time.Time, amount int64, typ models.TransactionType, category, account string) models.Transaction {
	t := models.Transaction{
		ID:          fmt.Sprint(id),
		Date:        when,
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Merchant:    fmt.Sprintf("Merchant %d", id),
		Description: fmt.Sprintf("Payment %d", id),
		Status:      models.StatusSuccess,
		BankAccount: account,
	}
	if typ == models.TypeUPI {
		t.UPIVirtualAddress = "user@ybl"
	}
	return t
}

func fixture() []models.ClassifiedTransaction {
	return classifier.AnnotateAll([]models.Transaction{
		tx(1, date(2025, 1, 15), -850, models.TypeUPI, "Food & Dining", "HDFC Bank"),
		tx(2, date(2025, 1, 14), 50000, models.TypeBankTransfer, "Income", "SBI Bank"),
		tx(3, date(2025, 1, 14), -1200, models.TypeUPI, "Groceries", "HDFC Bank"),
		tx(4, date(2024, 12, 31), -2500, models.TypeCreditCard, "Shopping", "ICICI Bank"),
		tx(5, date(2024, 11, 2), 5000, models.TypeUPI, "Income", "SBI Bank"),
		tx(6, date(2025, 1, 6), -450, models.TypeDebitCard, "Healthcare", "ICICI Bank"),
	})
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixture())

	assert.Equal(t, int64(55000), s.TotalIncome)
	assert.Equal(t, int64(5000), s.TotalExpense)
	assert.Equal(t, int64(50000), s.NetBalance)
	assert.Equal(t, 2, s.IncomeCount)
	assert.Equal(t, 4, s.ExpenseCount)
	assert.Equal(t, 6, s.TransactionCount)

	assert.Equal(t, int64(1200), s.CategoryTotals["Groceries"])
	assert.NotContains(t, s.CategoryTotals, "Income")
	assert.Equal(t, int64(2050), s.TypeTotals[string(models.TypeUPI)])

	assert.Equal(t, AccountTotals{Income: 55000, Count: 2}, s.AccountBreakdown["SBI Bank"])
	assert.Equal(t, AccountTotals{Expenses: 2050, Count: 2}, s.AccountBreakdown["HDFC Bank"])

	gpay := s.UPIInsights["Google Pay"]
	assert.Equal(t, 3, gpay.Count)
	assert.Equal(t, int64(7050), gpay.Amount)
	assert.Equal(t, int64(5000), gpay.Income)
	assert.Equal(t, int64(2050), gpay.Expense)
}

func TestSummarize_Invariants(t *testing.T) {
	s := Summarize(fixture())

	assert.Equal(t, s.TotalIncome-s.TotalExpense, s.NetBalance)

	var categorySum int64
	for _, v := range s.CategoryTotals {
		categorySum += v
	}
	assert.Equal(t, s.TotalExpense, categorySum)
}

func TestSummarize_GroceryScenario(t *testing.T) {
	grocery := models.Transaction{
		ID:          "g1",
		Date:        date(2025, 1, 14),
		Amount:      -1200,
		Type:        models.TypeDebitCard,
		Merchant:    "Big Bazaar",
		Description: "Payment to Big Bazaar",
		Category:    "Groceries",
		Status:      models.StatusSuccess,
	}
	s := Summarize(classifier.AnnotateAll([]models.Transaction{grocery}))

	assert.Equal(t, int64(1200), s.CategoryTotals["Groceries"])
	assert.Equal(t, int64(1200), s.TotalExpense)
	assert.Equal(t, int64(0), s.TotalIncome)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.TotalIncome)
	assert.Zero(t, s.TotalExpense)
	assert.Zero(t, s.NetBalance)
	assert.Zero(t, s.TransactionCount)
	assert.Empty(t, s.CategoryTotals)
	assert.Empty(t, s.AccountBreakdown)
	assert.Empty(t, s.UPIInsights)
	assert.Empty(t, CategoryBreakdown(s, 6))
	assert.Empty(t, MonthlyTrend(nil))
	assert.Equal(t, 0.0, Share(100, s.TotalExpense))
}

func TestSummarize_AmountBounds(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
	}{
		{"max expense", -models.MaxAmount},
		{"max income", models.MaxAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tx(1, date(2025, 1, 10), tt.amount, models.TypeUPI, "Shopping", "HDFC Bank")
			require.NoError(t, in.Validate())

			s := Summarize(classifier.AnnotateAll([]models.Transaction{in, in, in}))
			assert.GreaterOrEqual(t, s.TotalExpense, int64(0))
			assert.GreaterOrEqual(t, s.TotalIncome, int64(0))
			assert.Equal(t, 3*models.MaxAmount, s.TotalIncome+s.TotalExpense)
		})
	}

	outOfRange := tx(2, date(2025, 1, 10), math.MinInt64, models.TypeDebitCard, "Shopping", "HDFC Bank")
	assert.ErrorIs(t, outOfRange.Validate(), models.ErrAmountRange)
}

func TestShare(t *testing.T) {
	tests := []struct {
		amount, total int64
		want          float64
	}{
		{1200, 5000, 24},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{0, 100, 0},
		{100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.amount, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, Share(tt.amount, tt.total))
		})
	}
}

func TestCategoryBreakdown(t *testing.T) {
	s := Summarize(fixture())

	all := CategoryBreakdown(s, 0)
	require.Len(t, all, 4)
	assert.Equal(t, "Shopping", all[0].Category)
	assert.Equal(t, 50.0, all[0].Percent)
	assert.Equal(t, "Healthcare", all[3].Category)

	top := CategoryBreakdown(s, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "Groceries", top[1].Category)

	types := TypeBreakdown(s)
	require.NotEmpty(t, types)
	assert.Equal(t, string(models.TypeCreditCard), types[0].Category)
}

func TestMonthlyTrend_IgnoresFilter(t *testing.T) {
	all := fixture()
	now := date(2025, 1, 16)

	filtered := Apply(all, Filter{Window: WindowWeek}, now)
	require.Len(t, filtered, 3)

	trend := MonthlyTrend(all)
	require.Len(t, trend, 3)
	assert.Equal(t, "Nov 2024", trend[0].Label)
	assert.Equal(t, int64(5000), trend[0].Income)
	assert.Equal(t, "Dec 2024", trend[1].Label)
	assert.Equal(t, int64(2500), trend[1].Expenses)
	assert.Equal(t, "Jan 2025", trend[2].Label)
	assert.Equal(t, int64(50000), trend[2].Income)
	assert.Equal(t, int64(2500), trend[2].Expenses)
}

func TestWindowBounds(t *testing.T) {
	// Thursday
	now := time.Date(2025, 1, 16, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		window    Window
		wantStart time.Time
		wantEnd   time.Time
	}{
		{WindowWeek, date(2025, 1, 13), date(2025, 1, 19)},
		{WindowMonth, date(2025, 1, 1), date(2025, 1, 31)},
		{WindowYear, date(2025, 1, 1), date(2025, 12, 31)},
	}
	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			start, end, ok := tt.window.Bounds(now)
			require.True(t, ok)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.True(t, tt.window.Contains(start, now))
			assert.True(t, tt.window.Contains(end, now))
			assert.False(t, tt.window.Contains(start.AddDate(0, 0, -1), now))
			assert.False(t, tt.window.Contains(end.AddDate(0, 0, 1), now))
		})
	}

	_, _, ok := WindowAll.Bounds(now)
	assert.False(t, ok)
}

func TestWindowBounds_SundayBelongsToPreviousWeek(t *testing.T) {
	sunday := date(2025, 1, 19)
	start, end, _ := WindowWeek.Bounds(sunday)
	assert.Equal(t, date(2025, 1, 13), start)
	assert.Equal(t, date(2025, 1, 19), end)
}

func TestParseWindow(t *testing.T) {
	for in, want := range map[string]Window{"": WindowAll, "all": WindowAll, "Week": WindowWeek, " month ": WindowMonth, "year": WindowYear} {
		got, err := ParseWindow(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseWindow("decade")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	all := fixture()
	now := date(2025, 1, 16)

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{"no filter", Filter{}, []string{"1", "2", "3", "4", "5", "6"}},
		{"all sentinel", Filter{Category: "All", Type: "All", Account: "All"}, []string{"1", "2", "3", "4", "5", "6"}},
		{"month window", Filter{Window: WindowMonth}, []string{"1", "2", "3", "6"}},
		{"year window", Filter{Window: WindowYear}, []string{"1", "2", "3", "6"}},
		{"account", Filter{Account: "ICICI Bank"}, []string{"4", "6"}},
		{"category", Filter{Category: "Groceries"}, []string{"3"}},
		{"type", Filter{Type: "UPI"}, []string{"1", "3", "5"}},
		{"search is case insensitive", Filter{Search: "MERCHANT 2"}, []string{"2"}},
		{"combined", Filter{Window: WindowMonth, Account: "HDFC Bank", Type: "UPI"}, []string{"1", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(all, tt.filter, now)
			ids := make([]string, 0, len(got))
			for _, g := range got {
				ids = append(ids, g.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.LessOrEqual(t, len(got), len(all))
		})
	}
}

func TestBuildOptions(t *testing.T) {
	opts := BuildOptions(fixture())
	assert.Equal(t, AllValues, opts.Categories[0])
	assert.Contains(t, opts.Categories, "Groceries")
	assert.Contains(t, opts.Types, "Credit Card")
	assert.Equal(t, []string{AllValues, "HDFC Bank", "ICICI Bank", "SBI Bank"}, opts.Accounts)
}
