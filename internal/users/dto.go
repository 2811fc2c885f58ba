package users

import (
	"time"

	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	Username   string         `json:"username"`
	Role       enums.UserRole `json:"role"`
	EmployeeID string         `json:"employee_id"`
	FullName   string         `json:"full_name"`
	HasAvatar  bool           `json:"has_avatar"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// CreateUserInput holds the data required to register an account.
type CreateUserInput struct {
	Username        string         `json:"username" validate:"required,min=3,max=64"`
	Password        string         `json:"password" validate:"required,min=6"`
	ConfirmPassword string         `json:"confirm_password" validate:"required"`
	Role            enums.UserRole `json:"role" validate:"required"`
	EmployeeID      string         `json:"employee_id"`
	FullName        string         `json:"full_name"`
}

// ChangePasswordInput carries a password rotation request.
type ChangePasswordInput struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UpdateProfileInput captures the mutable account fields. Username and
// employee_id are fixed at creation and have no update path.
type UpdateProfileInput struct {
	FullName *string `json:"full_name,omitempty"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		Username:   u.Username,
		Role:       u.Role,
		EmployeeID: u.EmployeeID,
		FullName:   u.FullName,
		HasAvatar:  len(u.Avatar) > 0,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
