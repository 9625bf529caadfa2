package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanType classifies loans.
type LoanType string

const (
	LoanMortgage LoanType = "MORTGAGE"
	LoanAuto     LoanType = "AUTO"
	LoanStudent  LoanType = "STUDENT"
	LoanPersonal LoanType = "PERSONAL"
	LoanBNPL     LoanType = "BNPL"
	LoanPayday   LoanType = "PAYDAY"
)

// Loan carries the repayment terms for a loan account.
//
// BNPL loans use TotalInstallments/InstallmentFrequency/NextPaymentDate;
// payday loans use FeePerHundred/DueDate and repay in one balloon payment.
// InterestRate is an annual percentage (4.5 means 4.5%); payday loans keep
// it at 0 even though a fee is charged.
type Loan struct {
	ID                    string
	UserID                string
	AccountID             string // the loan liability account
	PaymentAccountID      string // the funding account, empty when not linked
	Type                  LoanType
	OriginalBalance       decimal.Decimal
	InterestRate          decimal.Decimal
	TermMonths            int
	StartDate             time.Time
	MonthlyPayment        decimal.Decimal
	ExtraPaymentAmount    decimal.Decimal
	CompletedInstallments int
	TotalInstallments     int // 0 when not installment-based
	InstallmentFrequency  Frequency
	NextPaymentDate       time.Time
	FeePerHundred         decimal.Decimal // payday flat fee per $100 borrowed
	DueDate               time.Time       // payday balloon due date
}
