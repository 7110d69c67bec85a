package synth

import (
	"strconv"
	"time"

	"trackpay-backend/internal/models"
)

type demoRow struct {
	date        string
	amount      int64
	typ         models.TransactionType
	source      string
	merchant    string
	category    string
	description string
	account     string
	vpa         string
}

var demoRows = []demoRow{
	{"2025-01-15", -850, models.TypeUPI, "PhonePe", "Zomato", "Food & Dining", "Food delivery", "HDFC Bank", "rahul@ibl"},
	{"2025-01-15", -200, models.TypeUPI, "Google Pay", "Uber", "Transportation", "Ride to office", "SBI Bank", "rahul@okhdfcbank"},
	{"2025-01-14", -1200, models.TypeUPI, "Paytm", "Big Bazaar", "Groceries", "Weekly shopping", "ICICI Bank", "rahul@paytm"},
	{"2025-01-14", 5000, models.TypeUPI, "PhonePe", "Salary Credit", "Income", "Freelance payment received", "HDFC Bank", "client@okaxis"},
	{"2025-01-13", -75, models.TypeUPI, "Google Pay", "Starbucks", "Food & Dining", "Coffee", "SBI Bank", "rahul@ybl"},
	{"2025-01-15", -2500, models.TypeCreditCard, "HDFC Credit Card", "Amazon", "Shopping", "Electronics purchase", "HDFC Bank", ""},
	{"2025-01-14", -800, models.TypeCreditCard, "SBI Credit Card", "Netflix", "Entertainment", "Monthly subscription", "SBI Bank", ""},
	{"2025-01-13", -15000, models.TypeCreditCard, "HDFC Credit Card", "BookMyShow", "Entertainment", "Movie tickets & snacks", "HDFC Bank", ""},
	{"2025-01-12", -3200, models.TypeCreditCard, "ICICI Credit Card", "Myntra", "Shopping", "Clothing purchase", "ICICI Bank", ""},
	{"2025-01-15", -25000, models.TypeBankTransfer, "HDFC Bank", "Rent Payment", "Bills & Utilities", "Monthly rent", "HDFC Bank", ""},
	{"2025-01-14", 50000, models.TypeBankTransfer, "SBI Bank", "Salary Credit", "Income", "Monthly salary", "SBI Bank", ""},
	{"2025-01-13", -5000, models.TypeBankTransfer, "ICICI Bank", "Mutual Fund SIP", "Investment", "SIP investment", "ICICI Bank", ""},
	{"2025-01-12", -1800, models.TypeBankTransfer, "HDFC Bank", "Electricity Bill", "Bills & Utilities", "Power bill payment", "HDFC Bank", ""},
	{"2025-01-15", -500, models.TypeWallet, "Paytm Wallet", "Metro Card Recharge", "Transportation", "Metro travel card", "SBI Bank", ""},
	{"2025-01-14", -350, models.TypeWallet, "PhonePe Wallet", "Mobile Recharge", "Bills & Utilities", "Phone recharge", "HDFC Bank", ""},
	{"2025-01-13", -120, models.TypeWallet, "Amazon Pay", "Chai Point", "Food & Dining", "Tea & snacks", "ICICI Bank", ""},
	{"2025-01-15", -2000, models.TypeDebitCard, "HDFC Debit Card", "ATM Withdrawal", "Cash Withdrawal", "Cash withdrawal", "HDFC Bank", ""},
	{"2025-01-14", -600, models.TypeDebitCard, "SBI Debit Card", "Petrol Pump", "Transportation", "Fuel purchase", "SBI Bank", ""},
	{"2025-01-13", -450, models.TypeDebitCard, "ICICI Debit Card", "Pharmacy", "Healthcare", "Medicine purchase", "ICICI Bank", ""},
	{"2025-01-12", -1500, models.TypeDebitCard, "HDFC Debit Card", "Restaurant", "Food & Dining", "Dinner with friends", "HDFC Bank", ""},
}

// Demo returns the twenty fixed dashboard transactions from January 2025,
// newest first. IDs are "1" to "20" in declaration order.
func Demo() []models.Transaction {
	out := make([]models.Transaction, 0, len(demoRows))
	for i, r := range demoRows {
		d, _ := time.Parse(models.DateLayout, r.date)
		out = append(out, models.Transaction{
			ID:                strconv.Itoa(i + 1),
			Date:              d,
			Amount:            r.amount,
			Type:              r.typ,
			Source:            r.source,
			Merchant:          r.merchant,
			Category:          r.category,
			Status:            models.StatusSuccess,
			Description:       r.description,
			BankAccount:       r.account,
			UPIVirtualAddress: r.vpa,
		})
	}
	SortNewestFirst(out)
	return out
}
