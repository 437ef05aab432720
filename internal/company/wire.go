//go:build wireinject
// +build wireinject

package company

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/merchantdesk/backoffice/internal/company/handler"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCompanyRepository,
	ProvideCompanyUserRepository,
	ProvideCreditRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateCompanyHandler,
	ProvideRegisterUserHandler,
	ProvideLoginUserHandler,
	ProvideChangeRoleHandler,
	ProvideSetCreditLimitHandler,
	ProvideReserveCreditHandler,
	ProvideReleaseCreditHandler,
	ProvideAdjustCreditHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetCompanyHandler,
	ProvideListCompaniesHandler,
	ProvideGetCreditInfoHandler,
	ProvideListCreditTransactionsHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes the company handler with all dependencies
func InitializeHandler(db *gorm.DB) (*handler.CompanyHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewCompanyHandlerWithDI,
	)
	return nil, nil
}
