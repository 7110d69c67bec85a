package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type AccountType string

const (
	AccountSavings AccountType = "Savings"
	AccountCurrent AccountType = "Current"
	AccountSalary  AccountType = "Salary"
)

// KYC holds the optional know-your-customer details of an account holder.
type KYC struct {
	PAN        string `json:"pan,omitempty"`
	HolderName string `json:"holder_name,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	Email      string `json:"email,omitempty"`
}

type BankAccount struct {
	ID                string      `json:"id"`
	BankName          string      `json:"bank_name"`
	AccountNumber     string      `json:"account_number"`
	FullAccountNumber string      `json:"full_account_number,omitempty"`
	IFSCCode          string      `json:"ifsc_code"`
	AccountType       AccountType `json:"account_type"`
	Balance           int64       `json:"balance"`
	Label             string      `json:"label"`
	IsPrimary         bool        `json:"is_primary"`
	LowBalanceAlert   int64       `json:"low_balance_alert"`
	LastUpdated       time.Time   `json:"last_updated"`
	KYC               *KYC        `json:"kyc,omitempty"`
}

// IsLowBalance reports whether the balance sits below the alert threshold.
func (a BankAccount) IsLowBalance() bool {
	return a.LowBalanceAlert > 0 && a.Balance < a.LowBalanceAlert
}

// MaskAccountNumber keeps the last four digits for display.
func MaskAccountNumber(full string) string {
	full = strings.TrimSpace(full)
	if len(full) <= 4 {
		return full
	}
	return "XXXX" + full[len(full)-4:]
}

// AccountInput is the add/edit account form payload.
type AccountInput struct {
	BankName             string      `json:"bank_name" validate:"required,max=60"`
	FullAccountNumber    string      `json:"full_account_number" validate:"required,numeric,min=9,max=18"`
	ConfirmAccountNumber string      `json:"confirm_account_number" validate:"eqfield=FullAccountNumber"`
	IFSCCode             string      `json:"ifsc_code" validate:"required,ifsc"`
	AccountType          AccountType `json:"account_type" validate:"required,oneof=Savings Current Salary"`
	Balance              int64       `json:"balance" validate:"gte=0"`
	Label                string      `json:"label" validate:"max=40"`
	IsPrimary            bool        `json:"is_primary"`
	LowBalanceAlert      int64       `json:"low_balance_alert" validate:"gte=0"`
	PAN                  string      `json:"pan" validate:"omitempty,pan"`
	HolderName           string      `json:"holder_name" validate:"max=80"`
	Mobile               string      `json:"mobile" validate:"omitempty,mobile"`
	Email                string      `json:"email" validate:"omitempty,email"`
}

// FieldErrors maps a json field name to a human readable message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "invalid account: " + strings.Join(parts, "; ")
}

var (
	panPattern    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	ifscPattern   = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	register := func(tag string, re *regexp.Regexp) {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
	register("pan", panPattern)
	register("ifsc", ifscPattern)
	register("mobile", mobilePattern)
	return v
}

// Normalize upper-cases the identifiers and trims every text field.
func (in AccountInput) Normalize() AccountInput {
	in.BankName = strings.TrimSpace(in.BankName)
	in.FullAccountNumber = strings.TrimSpace(in.FullAccountNumber)
	in.ConfirmAccountNumber = strings.TrimSpace(in.ConfirmAccountNumber)
	in.IFSCCode = strings.ToUpper(strings.TrimSpace(in.IFSCCode))
	in.Label = strings.TrimSpace(in.Label)
	in.PAN = strings.ToUpper(strings.TrimSpace(in.PAN))
	in.HolderName = strings.TrimSpace(in.HolderName)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// Validate returns FieldErrors when any form field is invalid.
func (in AccountInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "eqfield":
		return "account numbers do not match"
	case "pan":
		return "must be a valid PAN (e.g. ABCDE1234F)"
	case "ifsc":
		return "must be a valid IFSC code (e.g. HDFC0001234)"
	case "mobile":
		return "must be a 10 digit mobile number"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	case "numeric":
		return "must contain digits only"
	case "gte":
		return "must not be negative"
	case "min", "max":
		return fmt.Sprintf("length must satisfy %s=%s", fe.Tag(), fe.Param())
	}
	return "is invalid"
}

// ToAccount builds the stored record for the given id.
func (in AccountInput) ToAccount(id string, now time.Time) BankAccount {
	acct := BankAccount{
		ID:                id,
		BankName:          in.BankName,
		AccountNumber:     MaskAccountNumber(in.FullAccountNumber),
		FullAccountNumber: in.FullAccountNumber,
		IFSCCode:          in.IFSCCode,
		AccountType:       in.AccountType,
		Balance:           in.Balance,
		Label:             in.Label,
		IsPrimary:         in.IsPrimary,
		LowBalanceAlert:   in.LowBalanceAlert,
		LastUpdated:       now,
	}
	if in.PAN != "" || in.HolderName != "" || in.Mobile != "" || in.Email != "" {
		acct.KYC = &KYC{
			PAN:        in.PAN,
			HolderName: in.HolderName,
			Mobile:     in.Mobile,
			Email:      in.Email,
		}
	}
	if acct.Label == "" {
		acct.Label = fmt.Sprintf("%s %s", acct.BankName, acct.AccountType)
	}
	return acct
}
