package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type TransactionType string

const (
	TypeUPI          TransactionType = "UPI"
	TypeCreditCard   TransactionType = "Credit Card"
	TypeDebitCard    TransactionType = "Debit Card"
	TypeBankTransfer TransactionType = "Bank Transfer"
	TypeWallet       TransactionType = "Wallet"
)

// TransactionTypes lists every payment rail in display order.
var TransactionTypes = []TransactionType{
	TypeUPI,
	TypeCreditCard,
	TypeDebitCard,
	TypeBankTransfer,
	TypeWallet,
}

func (t TransactionType) Valid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

type TransactionStatus string

const (
	StatusSuccess TransactionStatus = "Success"
	StatusPending TransactionStatus = "Pending"
	StatusFailed  TransactionStatus = "Failed"
)

var (
	ErrMissingID     = errors.New("transaction id is required")
	ErrZeroAmount    = errors.New("transaction amount must not be zero")
	ErrUnknownType   = errors.New("unknown transaction type")
	ErrUPIAddress    = errors.New("upi virtual address must be set for UPI transactions only")
	ErrMissingDate   = errors.New("transaction date is required")
	ErrUnknownStatus = errors.New("unknown transaction status")
	ErrAmountRange   = errors.New("transaction amount out of range")
	ErrVPAFormat     = errors.New("upi virtual address must look like user@handle")
)

// MaxAmount bounds the magnitude of a single amount so that sums of
// absolute values cannot overflow int64.
const MaxAmount int64 = 1_000_000_000_000

// DateLayout is the calendar date format used on the wire and in exports.
const DateLayout = "2006-01-02"

// Transaction is an immutable payment record. Amount is in whole rupees:
// positive is a credit, negative a debit.
type Transaction struct {
	ID                string            `json:"id"`
	Date              time.Time         `json:"date"`
	Amount            int64             `json:"amount"`
	Type              TransactionType   `json:"type"`
	Source            string            `json:"source"`
	Merchant          string            `json:"merchant"`
	Category          string            `json:"category"`
	Status            TransactionStatus `json:"status"`
	Description       string            `json:"description"`
	BankAccount       string            `json:"bank_account"`
	UPIVirtualAddress string            `json:"upi_virtual_address,omitempty"`
}

// Validate checks the record invariants: a non-zero amount within
// MaxAmount, a known type and a user@handle VPA present exactly when the
// type is UPI.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	if t.Amount == 0 {
		return ErrZeroAmount
	}
	if t.Amount > MaxAmount || t.Amount < -MaxAmount {
		return fmt.Errorf("%w: %d", ErrAmountRange, t.Amount)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, t.Type)
	}
	switch t.Status {
	case StatusSuccess, StatusPending, StatusFailed:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStatus, t.Status)
	}
	vpa := strings.TrimSpace(t.UPIVirtualAddress)
	if (vpa != "") != (t.Type == TypeUPI) {
		return ErrUPIAddress
	}
	if vpa != "" && !validVPA(vpa) {
		return fmt.Errorf("%w: %q", ErrVPAFormat, vpa)
	}
	return nil
}

func validVPA(vpa string) bool {
	user, handle, ok := strings.Cut(vpa, "@")
	return ok &&
		strings.TrimSpace(user) != "" &&
		strings.TrimSpace(handle) != "" &&
		!strings.Contains(handle, "@")
}

func (t Transaction) IsIncome() bool  { return t.Amount > 0 }
func (t Transaction) IsExpense() bool { return t.Amount < 0 }

// AbsAmount returns the magnitude of the amount.
func (t Transaction) AbsAmount() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Analysis holds the heuristic tags derived from a transaction.
type Analysis struct {
	IsSalary      bool       `json:"is_salary"`
	IsRefund      bool       `json:"is_refund"`
	IsRecurring   bool       `json:"is_recurring"`
	SmartCategory *string    `json:"smart_category"`
	Confidence    Confidence `json:"confidence"`
}

// UPISource is the payment app guessed from a VPA handle.
type UPISource struct {
	App      string `json:"app"`
	Logo     string `json:"logo"`
	ColorTag string `json:"color_tag,omitempty"`
}

// ClassifiedTransaction carries the derived fields next to the stored record.
// Derived fields are recomputed on every read and never persisted.
type ClassifiedTransaction struct {
	Transaction
	UPISource UPISource `json:"upi_source"`
	Analysis  Analysis  `json:"analysis"`
}
