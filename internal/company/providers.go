package company

import (
	"gorm.io/gorm"

	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/internal/company/repository"
	"github.com/merchantdesk/backoffice/internal/company/usecase/command"
	"github.com/merchantdesk/backoffice/internal/company/usecase/query"
)

// Repository providers

func ProvideCompanyRepository(db *gorm.DB) domain.CompanyRepository {
	return repository.NewGormCompanyRepository(db)
}

func ProvideCompanyUserRepository(db *gorm.DB) domain.CompanyUserRepository {
	return repository.NewGormCompanyUserRepository(db)
}

func ProvideCreditRepository(db *gorm.DB) domain.CreditRepository {
	return repository.NewGormCreditRepository(db)
}

// Command handler providers

func ProvideCreateCompanyHandler(companies domain.CompanyRepository, credits domain.CreditRepository) *command.CreateCompanyHandler {
	return command.NewCreateCompanyHandler(companies, credits)
}

func ProvideRegisterUserHandler(users domain.CompanyUserRepository, companies domain.CompanyRepository) *command.RegisterUserHandler {
	return command.NewRegisterUserHandler(users, companies)
}

func ProvideLoginUserHandler(users domain.CompanyUserRepository) *command.LoginUserHandler {
	return command.NewLoginUserHandler(users)
}

func ProvideChangeRoleHandler(users domain.CompanyUserRepository) *command.ChangeRoleHandler {
	return command.NewChangeRoleHandler(users)
}

func ProvideSetCreditLimitHandler(repo domain.CreditRepository) *command.SetCreditLimitHandler {
	return command.NewSetCreditLimitHandler(repo)
}

func ProvideReserveCreditHandler(repo domain.CreditRepository) *command.ReserveCreditHandler {
	return command.NewReserveCreditHandler(repo)
}

func ProvideReleaseCreditHandler(repo domain.CreditRepository) *command.ReleaseCreditHandler {
	return command.NewReleaseCreditHandler(repo)
}

func ProvideAdjustCreditHandler(repo domain.CreditRepository) *command.AdjustCreditHandler {
	return command.NewAdjustCreditHandler(repo)
}

// Query handler providers

func ProvideGetCompanyHandler(repo domain.CompanyRepository) *query.GetCompanyHandler {
	return query.NewGetCompanyHandler(repo)
}

func ProvideListCompaniesHandler(repo domain.CompanyRepository) *query.ListCompaniesHandler {
	return query.NewListCompaniesHandler(repo)
}

func ProvideGetCreditInfoHandler(repo domain.CreditRepository) *query.GetCreditInfoHandler {
	return query.NewGetCreditInfoHandler(repo)
}

func ProvideListCreditTransactionsHandler(repo domain.CreditRepository) *query.ListCreditTransactionsHandler {
	return query.NewListCreditTransactionsHandler(repo)
}
