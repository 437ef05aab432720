package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CreditAccount holds a company's credit line. The invariant
// 0 <= AvailableCredit <= CreditLimit must hold after every mutation, with
// one documented exception: lowering the limit below current usage leaves
// AvailableCredit negative unless the clamp-on-reduction policy is enabled.
type CreditAccount struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	CompanyID       uint            `json:"company_id" gorm:"not null;uniqueIndex"`
	CreditLimit     decimal.Decimal `json:"credit_limit" gorm:"type:decimal(20,4);not null;default:0"`
	AvailableCredit decimal.Decimal `json:"available_credit" gorm:"type:decimal(20,4);not null;default:0"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (CreditAccount) TableName() string {
	return "credit_accounts"
}

// UsedCredit is the portion of the limit currently reserved.
func (a *CreditAccount) UsedCredit() decimal.Decimal {
	return a.CreditLimit.Sub(a.AvailableCredit)
}

// Credit transaction types
const (
	TxTypeLimitAssignment = "limit_assignment"
	TxTypeIncrease        = "increase"
	TxTypePayment         = "payment"
	TxTypeAdjustment      = "adjustment"
	TxTypeRefund          = "refund"
)

// CreditTransaction is an append-only ledger entry. Rows are written in the
// same store transaction as the balance mutation they describe and are never
// updated afterwards.
type CreditTransaction struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CompanyID     uint            `json:"company_id" gorm:"not null;index"`
	Type          string          `json:"type" gorm:"not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(20,4);not null"` // signed delta
	ReferenceID   string          `json:"reference_id,omitempty" gorm:"index"`
	ReferenceType string          `json:"reference_type,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	CreatedBy     uint            `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TableName specifies the table name
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

// TransactionFilter narrows a ledger listing.
type TransactionFilter struct {
	Types       []string
	ReferenceID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// CreditMutation is computed by a use case inside the account transaction.
// The entry is appended to the ledger together with the account write.
type CreditMutation func(account *CreditAccount) (*CreditTransaction, error)

// CreditRepository defines the contract for credit data access. Mutate runs
// the whole read-modify-write cycle inside one store transaction with the
// account row locked, so concurrent mutations of the same company serialize
// instead of losing updates.
type CreditRepository interface {
	CreateAccount(account *CreditAccount) error
	FindAccountByCompanyID(companyID uint) (*CreditAccount, error)
	Mutate(ctx context.Context, companyID uint, fn CreditMutation) (*CreditAccount, *CreditTransaction, error)
	ListTransactions(companyID uint, filter TransactionFilter) ([]CreditTransaction, error)
}
