package command

import (
	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/auth"
)

// RegisterUserCommand represents the command to register a company user
type RegisterUserCommand struct {
	CompanyID uint
	Username  string
	Email     string
	Password  string
	FullName  string
	Role      string
}

// RegisterUserHandler handles user registration
type RegisterUserHandler struct {
	users     domain.CompanyUserRepository
	companies domain.CompanyRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(users domain.CompanyUserRepository, companies domain.CompanyRepository) *RegisterUserHandler {
	return &RegisterUserHandler{users: users, companies: companies}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(cmd RegisterUserCommand) (*domain.CompanyUser, error) {
	if cmd.CompanyID == 0 {
		return nil, apperr.New(apperr.CodeInvalidArgument, "company_id is required")
	}
	if cmd.Username == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "username is required")
	}
	if cmd.Email == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "email is required")
	}
	if len(cmd.Password) < 8 {
		return nil, apperr.New(apperr.CodeInvalidArgument, "password must be at least 8 characters")
	}
	if cmd.Role == "" {
		cmd.Role = domain.RoleMember
	}
	if !domain.ValidRole(cmd.Role) {
		return nil, apperr.New(apperr.CodeInvalidArgument, "invalid role: %s", cmd.Role)
	}

	if _, err := h.companies.FindByID(cmd.CompanyID); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to hash password")
	}

	user := &domain.CompanyUser{
		CompanyID: cmd.CompanyID,
		Username:  cmd.Username,
		Email:     cmd.Email,
		Password:  hash,
		FullName:  cmd.FullName,
		Role:      cmd.Role,
		IsActive:  true,
	}

	if err := h.users.Create(user); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to create user")
	}

	return user, nil
}
