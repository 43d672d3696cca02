package entity

import "time"

// Subsystem groups ITRs under a system.
type Subsystem struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	Name           string     `json:"name" gorm:"size:128;not null"`
	SystemID       string     `json:"system_id" gorm:"size:36;not null;index"`
	CompletionRate int        `json:"completion_rate" gorm:"not null;default:0"`
	StartDate      *time.Time `json:"start_date" gorm:"type:date"`
	EndDate        *time.Time `json:"end_date" gorm:"type:date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	System *System `json:"system,omitempty" gorm:"foreignKey:SystemID"`
	ITRs   []ITR   `json:"itrs,omitempty" gorm:"foreignKey:SubsystemID"`
}

func (Subsystem) TableName() string {
	return "subsystems"
}
