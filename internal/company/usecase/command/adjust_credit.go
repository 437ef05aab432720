package command

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// AdjustCreditCommand represents a signed manual balance correction
type AdjustCreditCommand struct {
	CompanyID    uint
	Amount       decimal.Decimal // signed
	ActingUserID uint
	Reason       string
}

// AdjustCreditResult reports the balance after the adjustment
type AdjustCreditResult struct {
	AvailableCredit decimal.Decimal `json:"available_credit"`
	AppliedDelta    decimal.Decimal `json:"applied_delta"`
	TransactionID   uint            `json:"transaction_id"`
}

// AdjustCreditHandler handles the adjust credit command. The result is
// clamped into [0, creditLimit] instead of failing, so an administrator
// working from a stale balance figure is never blocked. The ledger entry
// records the delta that was actually applied.
type AdjustCreditHandler struct {
	repo domain.CreditRepository
}

// NewAdjustCreditHandler creates a new adjust credit handler
func NewAdjustCreditHandler(repo domain.CreditRepository) *AdjustCreditHandler {
	return &AdjustCreditHandler{repo: repo}
}

// Handle executes the adjust credit command
func (h *AdjustCreditHandler) Handle(ctx context.Context, cmd AdjustCreditCommand) (*AdjustCreditResult, error) {
	if cmd.CompanyID == 0 {
		return nil, apperr.New(apperr.CodeInvalidArgument, "company_id is required")
	}
	if cmd.Amount.IsZero() {
		return nil, apperr.New(apperr.CodeInvalidArgument, "amount must be non-zero")
	}
	if cmd.Reason == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "reason is required")
	}

	var applied decimal.Decimal

	account, entry, err := h.repo.Mutate(ctx, cmd.CompanyID, func(account *domain.CreditAccount) (*domain.CreditTransaction, error) {
		before := account.AvailableCredit
		account.AvailableCredit = clamp(before.Add(cmd.Amount), decimal.Zero, account.CreditLimit)
		applied = account.AvailableCredit.Sub(before)

		return &domain.CreditTransaction{
			Type:      domain.TxTypeAdjustment,
			Amount:    applied,
			Reason:    cmd.Reason,
			CreatedBy: cmd.ActingUserID,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("company_id", cmd.CompanyID).
		Uint("acting_user_id", cmd.ActingUserID).
		Str("requested_delta", cmd.Amount.String()).
		Str("applied_delta", applied.String()).
		Str("available_credit", account.AvailableCredit.String()).
		Str("reason", cmd.Reason).
		Msg("Credit adjusted")

	return &AdjustCreditResult{
		AvailableCredit: account.AvailableCredit,
		AppliedDelta:    applied,
		TransactionID:   entry.ID,
	}, nil
}
