package classifier

import (
	"strings"

	"trackpay-backend/internal/models"
)

const (
	SmartCategorySalary = "Salary"
	SmartCategoryRefund = "Refund"
)

// Input is what a rule gets to look at. Text fields are already lower-cased.
type Input struct {
	Description string
	Merchant    string
	Amount      int64
}

// Rule tags a transaction when its predicate matches.
type Rule struct {
	Name          string
	Match         func(Input) bool
	Tag           func(*models.Analysis)
	SmartCategory string
	Confidence    models.Confidence
}

// Rules returns the heuristics in priority order, highest first.
// Every matching rule sets its flag; the smart category and confidence come
// from the first matching rule that carries them.
func Rules() []Rule {
	return []Rule{
		{
			Name: "refund",
			Match: func(in Input) bool {
				return in.Amount > 0 && containsAny(in.Description, "refund", "return", "reversal")
			},
			Tag:           func(a *models.Analysis) { a.IsRefund = true },
			SmartCategory: SmartCategoryRefund,
			Confidence:    models.ConfidenceHigh,
		},
		{
			Name: "salary",
			Match: func(in Input) bool {
				return in.Amount > 0 &&
					(containsAny(in.Description, "salary", "sal") ||
						containsAny(in.Merchant, "pvt ltd", "technologies", "solutions"))
			},
			Tag:           func(a *models.Analysis) { a.IsSalary = true },
			SmartCategory: SmartCategorySalary,
			Confidence:    models.ConfidenceHigh,
		},
		{
			Name: "recurring",
			Match: func(in Input) bool {
				return containsAny(in.Description, "emi", "sip", "subscription", "monthly")
			},
			Tag:        func(a *models.Analysis) { a.IsRecurring = true },
			Confidence: models.ConfidenceMedium,
		},
	}
}

var defaultRules = Rules()

// Classify runs the rule list against a transaction's text and amount.
func Classify(description, merchant string, amount int64) models.Analysis {
	in := Input{
		Description: strings.ToLower(description),
		Merchant:    strings.ToLower(merchant),
		Amount:      amount,
	}

	out := models.Analysis{Confidence: models.ConfidenceMedium}
	confidenceSet := false
	for _, r := range defaultRules {
		if !r.Match(in) {
			continue
		}
		r.Tag(&out)
		if !confidenceSet {
			out.Confidence = r.Confidence
			confidenceSet = true
		}
		if out.SmartCategory == nil && r.SmartCategory != "" {
			category := r.SmartCategory
			out.SmartCategory = &category
		}
	}
	return out
}

// Annotate attaches the derived UPI source and analysis to a transaction.
func Annotate(tx models.Transaction) models.ClassifiedTransaction {
	return models.ClassifiedTransaction{
		Transaction: tx,
		UPISource:   IdentifyUPI(tx.UPIVirtualAddress),
		Analysis:    Classify(tx.Description, tx.Merchant, tx.Amount),
	}
}

func AnnotateAll(txs []models.Transaction) []models.ClassifiedTransaction {
	out := make([]models.ClassifiedTransaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, Annotate(tx))
	}
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
