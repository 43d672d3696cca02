package entity

import "time"

// ActivityLog is an append-only audit row. The dashboard alert feed is
// derived from the newest entries.
type ActivityLog struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Action    string    `json:"action" gorm:"size:64;not null"`
	Table     string    `json:"table_name" gorm:"column:table_name;size:64;not null"`
	RecordID  string    `json:"record_id" gorm:"size:36"`
	Details   JSONB     `json:"details" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (ActivityLog) TableName() string {
	return "db_activity_log"
}
