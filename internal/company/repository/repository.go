package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
)

type GormCompanyRepository struct {
	db *gorm.DB
}

func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

func (r *GormCompanyRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Company{}, &domain.CompanyUser{})
}

func (r *GormCompanyRepository) Create(company *domain.Company) error {
	return r.db.Create(company).Error
}

func (r *GormCompanyRepository) FindByID(id uint) (*domain.Company, error) {
	var company domain.Company
	err := r.db.First(&company, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "company %d not found", id)
		}
		return nil, err
	}
	return &company, nil
}

func (r *GormCompanyRepository) FindAll(limit, offset int) ([]domain.Company, error) {
	var companies []domain.Company
	err := r.db.Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&companies).Error
	return companies, err
}

func (r *GormCompanyRepository) Update(company *domain.Company) error {
	return r.db.Save(company).Error
}

func (r *GormCompanyRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Company{}, id).Error
}

type GormCompanyUserRepository struct {
	db *gorm.DB
}

func NewGormCompanyUserRepository(db *gorm.DB) *GormCompanyUserRepository {
	return &GormCompanyUserRepository{db: db}
}

func (r *GormCompanyUserRepository) Create(user *domain.CompanyUser) error {
	return r.db.Create(user).Error
}

func (r *GormCompanyUserRepository) FindByID(id uint) (*domain.CompanyUser, error) {
	var user domain.CompanyUser
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "company user %d not found", id)
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormCompanyUserRepository) FindByUsername(username string) (*domain.CompanyUser, error) {
	var user domain.CompanyUser
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "company user %q not found", username)
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormCompanyUserRepository) FindByCompanyID(companyID uint, limit, offset int) ([]domain.CompanyUser, error) {
	var users []domain.CompanyUser
	err := r.db.Where("company_id = ?", companyID).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *GormCompanyUserRepository) Update(user *domain.CompanyUser) error {
	return r.db.Save(user).Error
}

type GormCreditRepository struct {
	db *gorm.DB
}

func NewGormCreditRepository(db *gorm.DB) *GormCreditRepository {
	return &GormCreditRepository{db: db}
}

func (r *GormCreditRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.CreditAccount{}, &domain.CreditTransaction{})
}

func (r *GormCreditRepository) CreateAccount(account *domain.CreditAccount) error {
	return r.db.Create(account).Error
}

func (r *GormCreditRepository) FindAccountByCompanyID(companyID uint) (*domain.CreditAccount, error) {
	var account domain.CreditAccount
	err := r.db.Where("company_id = ?", companyID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "credit account for company %d not found", companyID)
		}
		return nil, err
	}
	return &account, nil
}

// Mutate runs fn against the locked account row and persists both the updated
// balance and the ledger entry in one transaction. The SELECT ... FOR UPDATE
// serializes concurrent mutations of the same company.
func (r *GormCreditRepository) Mutate(ctx context.Context, companyID uint, fn domain.CreditMutation) (*domain.CreditAccount, *domain.CreditTransaction, error) {
	var account domain.CreditAccount
	var entry *domain.CreditTransaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("company_id = ?", companyID).
			First(&account).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.CodeNotFound, "credit account for company %d not found", companyID)
			}
			return err
		}

		entry, err = fn(&account)
		if err != nil {
			return err
		}

		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		if entry != nil {
			entry.CompanyID = companyID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &account, entry, nil
}

func (r *GormCreditRepository) ListTransactions(companyID uint, filter domain.TransactionFilter) ([]domain.CreditTransaction, error) {
	query := r.db.Where("company_id = ?", companyID)

	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if filter.ReferenceID != "" {
		query = query.Where("reference_id = ?", filter.ReferenceID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var transactions []domain.CreditTransaction
	err := query.Limit(limit).Offset(filter.Offset).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}
