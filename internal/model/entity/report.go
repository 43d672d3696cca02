package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Report cadence names, as stored in schedule settings and task names.
const (
	ReportCadenceDaily   = "daily"
	ReportCadenceWeekly  = "weekly"
	ReportCadenceMonthly = "monthly"
)

// ReportRecipient is one email address on the report distribution list.
type ReportRecipient struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Email     string    `json:"email" gorm:"size:128;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReportRecipient) TableName() string {
	return "report_recipients"
}

// CadenceSetting is one cadence slot inside the schedule settings. Day holds
// a weekday name for weekly and a day-of-month string for monthly. Time is
// advisory ("HH:MM"); the gate itself never checks clock time.
type CadenceSetting struct {
	Day     string `json:"day,omitempty"`
	Time    string `json:"time"`
	Enabled bool   `json:"enabled"`
}

// ScheduleSettings is the full settings document stored in the singleton
// report_schedule row.
type ScheduleSettings struct {
	Daily   CadenceSetting `json:"daily"`
	Weekly  CadenceSetting `json:"weekly"`
	Monthly CadenceSetting `json:"monthly"`
}

func (s ScheduleSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ScheduleSettings) Scan(value interface{}) error {
	if value == nil {
		*s = ScheduleSettings{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported settings source type")
	}
}

// ReportSchedule is a singleton: created on first write, updated afterwards.
type ReportSchedule struct {
	ID        string           `json:"id" gorm:"primaryKey;size:36"`
	Settings  ScheduleSettings `json:"settings" gorm:"type:jsonb;not null"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (ReportSchedule) TableName() string {
	return "report_schedule"
}
