package query

import (
	"github.com/merchantdesk/backoffice/internal/company/domain"
)

// ListCompaniesQuery represents the query to list companies
type ListCompaniesQuery struct {
	Limit  int
	Offset int
}

// ListCompaniesHandler handles the list companies query
type ListCompaniesHandler struct {
	repo domain.CompanyRepository
}

// NewListCompaniesHandler creates a new list companies handler
func NewListCompaniesHandler(repo domain.CompanyRepository) *ListCompaniesHandler {
	return &ListCompaniesHandler{repo: repo}
}

// Handle executes the list companies query
func (h *ListCompaniesHandler) Handle(q ListCompaniesQuery) ([]domain.Company, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return h.repo.FindAll(limit, q.Offset)
}
