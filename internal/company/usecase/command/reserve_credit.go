package command

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

// ReserveCreditCommand represents the command to reserve credit for an order
// or invoice
type ReserveCreditCommand struct {
	CompanyID     uint
	Amount        decimal.Decimal
	ReferenceID   string
	ReferenceType string
	ActingUserID  uint
}

// ReserveCreditResult reports the balance after the reservation
type ReserveCreditResult struct {
	AvailableCredit decimal.Decimal `json:"available_credit"`
	TransactionID   uint            `json:"transaction_id"`
}

// ReserveCreditHandler handles the reserve credit command
type ReserveCreditHandler struct {
	repo domain.CreditRepository
}

// NewReserveCreditHandler creates a new reserve credit handler
func NewReserveCreditHandler(repo domain.CreditRepository) *ReserveCreditHandler {
	return &ReserveCreditHandler{repo: repo}
}

// Handle executes the reserve credit command
func (h *ReserveCreditHandler) Handle(ctx context.Context, cmd ReserveCreditCommand) (*ReserveCreditResult, error) {
	if cmd.CompanyID == 0 {
		return nil, apperr.New(apperr.CodeInvalidArgument, "company_id is required")
	}
	if !cmd.Amount.IsPositive() {
		return nil, apperr.New(apperr.CodeInvalidArgument, "amount must be greater than 0")
	}

	account, entry, err := h.repo.Mutate(ctx, cmd.CompanyID, func(account *domain.CreditAccount) (*domain.CreditTransaction, error) {
		if account.AvailableCredit.LessThan(cmd.Amount) {
			return nil, apperr.New(apperr.CodeInsufficientCredit,
				"insufficient credit: requested %s, available %s",
				cmd.Amount.String(), account.AvailableCredit.String(),
			).WithDetails(map[string]interface{}{
				"requested": cmd.Amount.String(),
				"available": account.AvailableCredit.String(),
			})
		}

		account.AvailableCredit = account.AvailableCredit.Sub(cmd.Amount)

		return &domain.CreditTransaction{
			Type:          domain.TxTypePayment,
			Amount:        cmd.Amount.Neg(),
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
		Msg("Credit reserved")

	return &ReserveCreditResult{
		AvailableCredit: account.AvailableCredit,
		TransactionID:   entry.ID,
	}, nil
}
