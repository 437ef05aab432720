package domain

import (
	"time"

	"gorm.io/gorm"
)

// Company represents a business account holding a credit line
type Company struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null;uniqueIndex"`
	Email     string         `json:"email" gorm:"not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Company) TableName() string {
	return "companies"
}

// Company user roles
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleFinance = "finance"
	RoleMember  = "member"
)

// CompanyUser represents a user attached to a company with a role
type CompanyUser struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CompanyID uint           `json:"company_id" gorm:"not null;index"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"` // Never expose password in JSON
	FullName  string         `json:"full_name"`
	Role      string         `json:"role" gorm:"not null;default:'member'"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (CompanyUser) TableName() string {
	return "company_users"
}

// CanManageCredit reports whether the role may assign limits or adjust
// balances.
func (u *CompanyUser) CanManageCredit() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}

// CanSpendCredit reports whether the role may reserve or release credit.
func (u *CompanyUser) CanSpendCredit() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin || u.Role == RoleFinance
}

// ValidRole reports whether the role name is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleFinance, RoleMember:
		return true
	}
	return false
}

// CompanyRepository defines the contract for company data access
type CompanyRepository interface {
	Create(company *Company) error
	FindByID(id uint) (*Company, error)
	FindAll(limit, offset int) ([]Company, error)
	Update(company *Company) error
	Delete(id uint) error
}

// CompanyUserRepository defines the contract for company user data access
type CompanyUserRepository interface {
	Create(user *CompanyUser) error
	FindByID(id uint) (*CompanyUser, error)
	FindByUsername(username string) (*CompanyUser, error)
	FindByCompanyID(companyID uint, limit, offset int) ([]CompanyUser, error)
	Update(user *CompanyUser) error
}
