package entity

import "time"

// System groups subsystems under a project. Systems carry no status column;
// completion is tracked through the completion rate only.
type System struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	Name           string     `json:"name" gorm:"size:128;not null"`
	ProjectID      string     `json:"project_id" gorm:"size:36;not null;index"`
	CompletionRate int        `json:"completion_rate" gorm:"not null;default:0"`
	StartDate      *time.Time `json:"start_date" gorm:"type:date"`
	EndDate        *time.Time `json:"end_date" gorm:"type:date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Project    *Project    `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Subsystems []Subsystem `json:"subsystems,omitempty" gorm:"foreignKey:SystemID"`
}

func (System) TableName() string {
	return "systems"
}
