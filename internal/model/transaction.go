package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the ledger effect of a transaction.
type TransactionType string

const (
	TxnIncome          TransactionType = "INCOME"
	TxnExpense         TransactionType = "EXPENSE"
	TxnTransfer        TransactionType = "TRANSFER"
	TxnLoanPrincipal   TransactionType = "LOAN_PRINCIPAL"
	TxnLoanInterest    TransactionType = "LOAN_INTEREST"
	TxnInterestEarned  TransactionType = "INTEREST_EARNED"
	TxnInterestCharged TransactionType = "INTEREST_CHARGED"
)

// TransactionSource records how a transaction entered the ledger.
type TransactionSource string

const (
	SourceManual    TransactionSource = "MANUAL"
	SourceImport    TransactionSource = "IMPORT"
	SourceRecurring TransactionSource = "RECURRING"
	SourceSystem    TransactionSource = "SYSTEM"
)

// PendingConfirmationNote marks a variable-amount recurring bill
// transaction awaiting user confirmation of the real amount.
const PendingConfirmationNote = "pending-confirmation"

// Transaction is one ledger record. Debits are negative. Immutable once
// created, except for the linked-transaction back-fill used to pair
// transfer legs.
type Transaction struct {
	ID                  string
	UserID              string
	AccountID           string
	Date                time.Time
	Description         string
	Amount              decimal.Decimal
	Type                TransactionType
	Source              TransactionSource
	Category            string
	Notes               string
	LinkedTransactionID string // paired transfer leg, empty when unlinked
	AprRateID           string // rate that priced this purchase, empty when none
}

// IsPurchase reports whether the transaction is an outstanding charge
// that can accrue credit-card interest.
func (t Transaction) IsPurchase() bool {
	return t.Type == TxnExpense && t.Amount.IsNegative()
}
