package command

import (
	"github.com/merchantdesk/backoffice/internal/company/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
)

// ChangeRoleCommand represents the command to change a company user's role
type ChangeRoleCommand struct {
	UserID  uint
	NewRole string
}

// ChangeRoleHandler handles the change role command
type ChangeRoleHandler struct {
	users domain.CompanyUserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(users domain.CompanyUserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{users: users}
}

// Handle executes the change role command
func (h *ChangeRoleHandler) Handle(cmd ChangeRoleCommand) (*domain.CompanyUser, error) {
	if cmd.UserID == 0 {
		return nil, apperr.New(apperr.CodeInvalidArgument, "user_id is required")
	}
	if !domain.ValidRole(cmd.NewRole) {
		return nil, apperr.New(apperr.CodeInvalidArgument, "invalid role: %s", cmd.NewRole)
	}

	user, err := h.users.FindByID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	user.Role = cmd.NewRole
	if err := h.users.Update(user); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to update user role")
	}

	return user, nil
}
