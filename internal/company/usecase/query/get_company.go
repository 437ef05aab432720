package query

import (
	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
)

// GetCompanyQuery represents the query to get a company
type GetCompanyQuery struct {
	ID uint
}

// GetCompanyHandler handles the get company query
type GetCompanyHandler struct {
	repo domain.CompanyRepository
}

// NewGetCompanyHandler creates a new get company handler
func NewGetCompanyHandler(repo domain.CompanyRepository) *GetCompanyHandler {
	return &GetCompanyHandler{repo: repo}
}

// Handle executes the get company query
func (h *GetCompanyHandler) Handle(q GetCompanyQuery) (*domain.Company, error) {
	if q.ID == 0 {
		return nil, apperr.New(apperr.CodeInvalidArgument, "id is required")
	}
	return h.repo.FindByID(q.ID)
}
