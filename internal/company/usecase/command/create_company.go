package command

import (
	"github.com/shopspring/decimal"

	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
)

// CreateCompanyCommand represents the command to create a company
type CreateCompanyCommand struct {
	Name         string
	Email        string
	InitialLimit decimal.Decimal
}

// CreateCompanyHandler handles the create company command. Every company
// gets a credit account at creation; the account starts with limit ==
// available == the initial limit (zero by default).
type CreateCompanyHandler struct {
	companies domain.CompanyRepository
	credits   domain.CreditRepository
}

// NewCreateCompanyHandler creates a new create company handler
func NewCreateCompanyHandler(companies domain.CompanyRepository, credits domain.CreditRepository) *CreateCompanyHandler {
	return &CreateCompanyHandler{companies: companies, credits: credits}
}

// Handle executes the create company command
func (h *CreateCompanyHandler) Handle(cmd CreateCompanyCommand) (*domain.Company, error) {
	if cmd.Name == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "name is required")
	}
	if cmd.Email == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "email is required")
	}
	if cmd.InitialLimit.IsNegative() {
		return nil, apperr.New(apperr.CodeInvalidArgument, "initial limit cannot be negative")
	}

	company := &domain.Company{
		Name:     cmd.Name,
		Email:    cmd.Email,
		IsActive: true,
	}

	if err := h.companies.Create(company); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to create company")
	}

	account := &domain.CreditAccount{
		CompanyID:       company.ID,
		CreditLimit:     cmd.InitialLimit,
		AvailableCredit: cmd.InitialLimit,
	}
	if err := h.credits.CreateAccount(account); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to create credit account")
	}

	return company, nil
}
