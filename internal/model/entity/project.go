package entity

import "time"

// Shared lifecycle status constants. ITRs and projects use the same set.
const (
	StatusPending    = "pending"
	StatusInProgress = "inprogress"
	StatusComplete   = "complete"
	StatusDelayed    = "delayed"
)

// Project is the top of the precommissioning hierarchy.
type Project struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	Name      string     `json:"name" gorm:"size:128;not null"`
	Location  string     `json:"location" gorm:"size:128"`
	Status    string     `json:"status" gorm:"size:16;not null;default:pending"`
	Progress  int        `json:"progress" gorm:"not null;default:0"`
	StartDate *time.Time `json:"start_date" gorm:"type:date"`
	EndDate   *time.Time `json:"end_date" gorm:"type:date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Systems []System `json:"systems,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}
