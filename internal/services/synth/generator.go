package synth

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"trackpay-backend/internal/models"
)

const (
	DefaultCount             = 60
	DefaultIncomeProbability = 0.15
	DefaultWindowDays        = 90
)

// Config controls the synthetic ledger. Start from DefaultConfig: a zero
// IncomeProbability means no income at all.
type Config struct {
	Count             int
	IncomeProbability float64
	WindowDays        int
	Seed              int64
	Now               time.Time
}

func DefaultConfig() Config {
	return Config{
		Count:             DefaultCount,
		IncomeProbability: DefaultIncomeProbability,
		WindowDays:        DefaultWindowDays,
		Seed:              time.Now().UnixNano(),
	}
}

func (c Config) withDefaults() Config {
	if c.Count <= 0 {
		c.Count = DefaultCount
	}
	if c.IncomeProbability < 0 {
		c.IncomeProbability = 0
	}
	if c.IncomeProbability > 1 {
		c.IncomeProbability = 1
	}
	if c.WindowDays <= 0 {
		c.WindowDays = DefaultWindowDays
	}
	if c.Now.IsZero() {
		c.Now = time.Now()
	}
	return c
}

type merchant struct {
	name        string
	category    string
	description string
}

var (
	expenseMerchants = []merchant{
		{"Zomato", "Food & Dining", "Food delivery"},
		{"Swiggy", "Food & Dining", "Dinner order"},
		{"Starbucks", "Food & Dining", "Coffee"},
		{"Uber", "Transportation", "Ride to office"},
		{"Ola", "Transportation", "Cab ride"},
		{"Petrol Pump", "Transportation", "Fuel purchase"},
		{"Amazon", "Shopping", "Electronics purchase"},
		{"Myntra", "Shopping", "Clothing purchase"},
		{"Big Bazaar", "Groceries", "Weekly shopping"},
		{"BigBasket", "Groceries", "Grocery delivery"},
		{"Electricity Board", "Bills & Utilities", "Power bill payment"},
		{"Airtel", "Bills & Utilities", "Mobile recharge"},
		{"Netflix", "Entertainment", "Monthly subscription"},
		{"BookMyShow", "Entertainment", "Movie tickets"},
		{"Apollo Pharmacy", "Healthcare", "Medicine purchase"},
		{"Mutual Fund SIP", "Investment", "SIP investment"},
		{"Home Loan", "Bills & Utilities", "Home loan EMI"},
		{"Coursera", "Education", "Course subscription"},
	}
	incomeMerchants = []merchant{
		{"Infosys Pvt Ltd", "Income", "Monthly salary credit"},
		{"Freelance Client", "Income", "Freelance payment received"},
		{"Amazon", "Income", "Refund for returned order"},
		{"Interest Credit", "Income", "Savings interest"},
	}

	upiHandles = []string{"okaxis", "ibl", "okhdfcbank", "ybl", "paytm", "apl", "airtel"}
	upiUsers   = []string{"rahul", "priya", "amit", "sneha", "vikram", "anita"}

	typeSources = map[models.TransactionType][]string{
		models.TypeUPI:          {"PhonePe", "Google Pay", "Paytm", "Amazon Pay"},
		models.TypeCreditCard:   {"HDFC Credit Card", "SBI Credit Card", "ICICI Credit Card"},
		models.TypeDebitCard:    {"HDFC Debit Card", "SBI Debit Card", "ICICI Debit Card"},
		models.TypeBankTransfer: {"NEFT", "IMPS", "RTGS"},
		models.TypeWallet:       {"Paytm Wallet", "PhonePe Wallet", "Amazon Pay Wallet"},
	}
)

// Generator produces a reproducible synthetic ledger for demos and tests.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

func NewGenerator(cfg Config) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

func (g *Generator) newID() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// Accounts returns the fixed bank accounts. The first one is primary.
func (g *Generator) Accounts() []models.BankAccount {
	now := g.cfg.Now
	type preset struct {
		bank, number, ifsc string
		kind               models.AccountType
		balance, alert     int64
	}
	presets := []preset{
		{"HDFC Bank", "50100234567890", "HDFC0001234", models.AccountSalary, 125000, 10000},
		{"SBI Bank", "30987654321", "SBIN0004567", models.AccountSavings, 48000, 5000},
		{"ICICI Bank", "002501234567", "ICIC0000025", models.AccountSavings, 8200, 10000},
		{"Axis Bank", "917020012345678", "UTIB0000917", models.AccountCurrent, 230000, 25000},
	}

	out := make([]models.BankAccount, 0, len(presets))
	for i, p := range presets {
		out = append(out, models.BankAccount{
			ID:                g.newID(),
			BankName:          p.bank,
			AccountNumber:     models.MaskAccountNumber(p.number),
			FullAccountNumber: p.number,
			IFSCCode:          p.ifsc,
			AccountType:       p.kind,
			Balance:           p.balance,
			Label:             p.bank + " " + string(p.kind),
			IsPrimary:         i == 0,
			LowBalanceAlert:   p.alert,
			LastUpdated:       now,
		})
	}
	return out
}

// Transactions returns cfg.Count records dated within the trailing window,
// newest first.
func (g *Generator) Transactions(accounts []models.BankAccount) []models.Transaction {
	banks := make([]string, 0, len(accounts))
	for _, a := range accounts {
		banks = append(banks, a.BankName)
	}
	if len(banks) == 0 {
		banks = []string{"HDFC Bank"}
	}

	today := models.DateOf(g.cfg.Now)
	out := make([]models.Transaction, 0, g.cfg.Count)
	for i := 0; i < g.cfg.Count; i++ {
		income := g.rng.Float64() < g.cfg.IncomeProbability

		var m merchant
		var amount int64
		if income {
			m = incomeMerchants[g.rng.Intn(len(incomeMerchants))]
			amount = int64(5000 + g.rng.Intn(75001))
		} else {
			m = expenseMerchants[g.rng.Intn(len(expenseMerchants))]
			amount = -int64(50 + g.rng.Intn(4951))
		}

		typ := models.TransactionTypes[g.rng.Intn(len(models.TransactionTypes))]
		tx := models.Transaction{
			ID:          g.newID(),
			Date:        today.AddDate(0, 0, -g.rng.Intn(g.cfg.WindowDays)),
			Amount:      amount,
			Type:        typ,
			Source:      g.pick(typeSources[typ]),
			Merchant:    m.name,
			Category:    m.category,
			Status:      models.StatusSuccess,
			Description: m.description,
			BankAccount: g.pick(banks),
		}
		if typ == models.TypeUPI {
			tx.UPIVirtualAddress = g.pick(upiUsers) + "@" + g.pick(upiHandles)
		}
		out = append(out, tx)
	}

	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders by date descending, ties by id.
func SortNewestFirst(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return strings.Compare(txs[i].ID, txs[j].ID) < 0
	})
}
