package command

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// ReleaseCreditCommand represents the command to return reserved credit,
// typically after a refund or order cancellation
type ReleaseCreditCommand struct {
	CompanyID     uint
	Amount        decimal.Decimal
	ReferenceID   string
	ReferenceType string
	ActingUserID  uint
}

// ReleaseCreditResult reports the balance after the release
type ReleaseCreditResult struct {
	AvailableCredit decimal.Decimal `json:"available_credit"`
	TransactionID   uint            `json:"transaction_id"`
}

// ReleaseCreditHandler handles the release credit command. The release is
// clamped at the credit limit, so releasing more than was reserved never
// inflates the balance.
type ReleaseCreditHandler struct {
	repo domain.CreditRepository
}

// NewReleaseCreditHandler creates a new release credit handler
func NewReleaseCreditHandler(repo domain.CreditRepository) *ReleaseCreditHandler {
	return &ReleaseCreditHandler{repo: repo}
}

// Handle executes the release credit command
func (h *ReleaseCreditHandler) Handle(ctx context.Context, cmd ReleaseCreditCommand) (*ReleaseCreditResult, error) {
	if cmd.CompanyID == 0 {
		return nil, apperr.New(apperr.CodeInvalidArgument, "company_id is required")
	}
	if !cmd.Amount.IsPositive() {
		return nil, apperr.New(apperr.CodeInvalidArgument, "amount must be greater than 0")
	}

	account, entry, err := h.repo.Mutate(ctx, cmd.CompanyID, func(account *domain.CreditAccount) (*domain.CreditTransaction, error) {
		released := account.AvailableCredit.Add(cmd.Amount)
		if released.GreaterThan(account.CreditLimit) {
			released = account.CreditLimit
		}
		account.AvailableCredit = released

		return &domain.CreditTransaction{
			Type:          domain.TxTypeRefund,
			Amount:        cmd.Amount,
			ReferenceID:   cmd.ReferenceID,
			ReferenceType: cmd.ReferenceType,
			CreatedBy:     cmd.ActingUserID,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("company_id", cmd.CompanyID).
		Uint("acting_user_id", cmd.ActingUserID).
		Str("amount", cmd.Amount.String()).
		Str("reference_id", cmd.ReferenceID).
		Str("available_credit", account.AvailableCredit.String()).
		Msg("Credit released")

	return &ReleaseCreditResult{
		AvailableCredit: account.AvailableCredit,
		TransactionID:   entry.ID,
	}, nil
}

func clamp(v, min, max decimal.Decimal) decimal.Decimal {
	if v.LessThan(min) {
		return min
	}
	if v.GreaterThan(max) {
		return max
	}
	return v
}
