package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts.
type AccountType string

const (
	AccountTypeChecking   AccountType = "CHECKING"
	AccountTypeSavings    AccountType = "SAVINGS"
	AccountTypeCreditCard AccountType = "CREDIT_CARD"
	AccountTypeLoan       AccountType = "LOAN"
	AccountTypeMortgage   AccountType = "MORTGAGE"
)

// Account is a user-owned financial account. Liability balances are
// negative. The engine deactivates accounts, never deletes them.
type Account struct {
	ID          string
	UserID      string
	Name        string
	Type        AccountType
	Balance     decimal.Decimal
	CreditLimit decimal.Decimal // zero when no limit is set
	IsActive    bool
}
