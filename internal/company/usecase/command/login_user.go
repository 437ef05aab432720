package command

import (
	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
	"github.com/merchantdesk/backoffice/pkg/auth"
)

// LoginUserCommand represents the command to login a company user
type LoginUserCommand struct {
	Username string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token string              `json:"token"`
	User  *domain.CompanyUser `json:"user"`
}

// LoginUserHandler handles user login
type LoginUserHandler struct {
	users domain.CompanyUserRepository
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(users domain.CompanyUserRepository) *LoginUserHandler {
	return &LoginUserHandler{users: users}
}

// Handle executes the login user command
func (h *LoginUserHandler) Handle(cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Username == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "username is required")
	}
	if cmd.Password == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "password is required")
	}

	user, err := h.users.FindByUsername(cmd.Username)
	if err != nil {
		return nil, apperr.New(apperr.CodeUnauthorized, "invalid credentials")
	}

	if !user.IsActive {
		return nil, apperr.New(apperr.CodeUnauthorized, "account is deactivated")
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, apperr.New(apperr.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID, user.CompanyID, user.Username, user.Role)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to generate token")
	}

	return &LoginResponse{Token: token, User: user}, nil
}
