package analytics

import (
	"sort"
	"strings"
	"time"

	"trackpay-backend/internal/models"
)

// AllValues is the dropdown sentinel meaning "no filter".
const AllValues = "All"

// Filter is the dashboard's view state. It is a plain value: callers build
// a new one instead of mutating a shared instance.
type Filter struct {
	Window   Window `json:"window"`
	Account  string `json:"account"`
	Search   string `json:"search"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AllValues)
}

// Match reports whether a single transaction passes the filter.
func (f Filter) Match(tx models.Transaction, now time.Time) bool {
	if f.Window != "" && !f.Window.Contains(tx.Date, now) {
		return false
	}
	if !isAll(f.Account) && tx.BankAccount != f.Account {
		return false
	}
	if !isAll(f.Category) && tx.Category != f.Category {
		return false
	}
	if !isAll(f.Type) && string(tx.Type) != f.Type {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(tx.Merchant), term) &&
			!strings.Contains(strings.ToLower(tx.Description), term) {
			return false
		}
	}
	return true
}

// Apply returns the transactions passing f, keeping their order.
// The input slice is never modified.
func Apply(txs []models.ClassifiedTransaction, f Filter, now time.Time) []models.ClassifiedTransaction {
	out := make([]models.ClassifiedTransaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(tx.Transaction, now) {
			out = append(out, tx)
		}
	}
	return out
}

// Options lists the distinct values the dashboard dropdowns offer.
type Options struct {
	Categories []string `json:"categories"`
	Types      []string `json:"types"`
	Accounts   []string `json:"accounts"`
}

func BuildOptions(txs []models.ClassifiedTransaction) Options {
	cats := map[string]struct{}{}
	types := map[string]struct{}{}
	accounts := map[string]struct{}{}
	for _, tx := range txs {
		cats[tx.Category] = struct{}{}
		types[string(tx.Type)] = struct{}{}
		if tx.BankAccount != "" {
			accounts[tx.BankAccount] = struct{}{}
		}
	}
	return Options{
		Categories: withAll(cats),
		Types:      withAll(types),
		Accounts:   withAll(accounts),
	}
}

func withAll(set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return append([]string{AllValues}, values...)
}
