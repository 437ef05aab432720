package command

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// SetCreditLimitCommand represents the command to assign a company credit limit
type SetCreditLimitCommand struct {
	CompanyID    uint
	NewLimit     decimal.Decimal
	ActingUserID uint
	Reason       string
}

// SetCreditLimitResult reports the balances after the assignment
type SetCreditLimitResult struct {
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	PreviousLimit   decimal.Decimal `json:"previous_limit"`
}

// SetCreditLimitHandler handles the set credit limit command.
//
// The limit delta is applied to the available balance as well, so unused
// headroom grows or shrinks with the limit. When the new limit is below
// current usage the available balance goes negative unless
// clampOnReduction is set; the default mirrors the historical behavior of
// keeping over-limit usage visible for collections.
type SetCreditLimitHandler struct {
	repo             domain.CreditRepository
	clampOnReduction bool
}

// NewSetCreditLimitHandler creates a new set credit limit handler
func NewSetCreditLimitHandler(repo domain.CreditRepository) *SetCreditLimitHandler {
	return &SetCreditLimitHandler{repo: repo}
}

// NewSetCreditLimitHandlerWithPolicy creates a handler with an explicit
// clamp-on-reduction policy.
func NewSetCreditLimitHandlerWithPolicy(repo domain.CreditRepository, clampOnReduction bool) *SetCreditLimitHandler {
	return &SetCreditLimitHandler{repo: repo, clampOnReduction: clampOnReduction}
}

// Handle executes the set credit limit command
func (h *SetCreditLimitHandler) Handle(ctx context.Context, cmd SetCreditLimitCommand) (*SetCreditLimitResult, error) {
	if cmd.CompanyID == 0 {
		return nil, apperr.New(apperr.CodeInvalidArgument, "company_id is required")
	}
	if cmd.NewLimit.IsNegative() {
		return nil, apperr.New(apperr.CodeInvalidArgument, "credit limit cannot be negative")
	}

	var result SetCreditLimitResult

	account, _, err := h.repo.Mutate(ctx, cmd.CompanyID, func(account *domain.CreditAccount) (*domain.CreditTransaction, error) {
		previousLimit := account.CreditLimit
		delta := cmd.NewLimit.Sub(previousLimit)

		account.CreditLimit = cmd.NewLimit
		account.AvailableCredit = account.AvailableCredit.Add(delta)

		if h.clampOnReduction {
			if account.AvailableCredit.IsNegative() {
				account.AvailableCredit = decimal.Zero
			}
			if account.AvailableCredit.GreaterThan(account.CreditLimit) {
				account.AvailableCredit = account.CreditLimit
			}
		}

		result.PreviousLimit = previousLimit

		return &domain.CreditTransaction{
			Type:      domain.TxTypeLimitAssignment,
			Amount:    delta,
			Reason:    cmd.Reason,
			CreatedBy: cmd.ActingUserID,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	result.CreditLimit = account.CreditLimit
	result.AvailableCredit = account.AvailableCredit

	logger.Info(ctx).
		Uint("company_id", cmd.CompanyID).
		Uint("acting_user_id", cmd.ActingUserID).
		Str("previous_limit", result.PreviousLimit.String()).
		Str("new_limit", result.CreditLimit.String()).
		Str("available_credit", result.AvailableCredit.String()).
		Msg("Credit limit assigned")

	return &result, nil
}
