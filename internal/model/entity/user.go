package entity

import "time"

// User role constants
const (
	UserRoleAdmin     = "admin"
	UserRoleInspector = "inspector"
	UserRoleApprover  = "approver"
	UserRoleViewer    = "viewer"
)

// User is an application account. The table keeps the legacy "profiles"
// name from the hosted deployment.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"size:128;not null;uniqueIndex"`
	FullName     string    `json:"full_name" gorm:"size:128;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	Role         string    `json:"role" gorm:"size:16;not null;default:viewer"`
	AvatarURL    string    `json:"avatar_url" gorm:"size:512"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "profiles"
}
