package models

import (
	"time"

	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
)

// User represents a lab portal account. Username and employee ID are fixed at
// creation; only profile fields and the password hash may change afterward.
type User struct {
	Username     string         `gorm:"column:username;type:text;primaryKey"`
	PasswordHash string         `gorm:"column:password_hash;type:text;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	EmployeeID   string         `gorm:"column:employee_id;type:text;not null"`
	FullName     string         `gorm:"column:full_name;type:text"`
	Avatar       []byte         `gorm:"column:avatar"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
