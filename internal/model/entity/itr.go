package entity

import "time"

// Signature role constants
const (
	SignatureRoleInspector = "inspector"
	SignatureRoleApprover  = "approver"
)

// ITR is an Inspection Test Record. An ITR reaches "complete" only once it
// holds one inspector and one approver signature; completion is always
// recomputed from the live signature set, never cached elsewhere.
type ITR struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	Name        string     `json:"name" gorm:"size:128;not null"`
	Quantity    int        `json:"quantity" gorm:"not null;default:1"`
	Status      string     `json:"status" gorm:"size:16;not null;default:pending"`
	Progress    int        `json:"progress" gorm:"not null;default:0"`
	StartDate   *time.Time `json:"start_date" gorm:"type:date"`
	EndDate     *time.Time `json:"end_date" gorm:"type:date"`
	AssignedTo  string     `json:"assigned_to" gorm:"size:36"`
	SubsystemID string     `json:"subsystem_id" gorm:"size:36;not null;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Subsystem  *Subsystem  `json:"subsystem,omitempty" gorm:"foreignKey:SubsystemID"`
	Signatures []Signature `json:"signatures,omitempty" gorm:"foreignKey:ITRID"`
}

func (ITR) TableName() string {
	return "itrs"
}

// Signature is one (user, role) attestation against an ITR. The composite
// unique index is what makes concurrent duplicate signs safe: the insert
// fails instead of producing a second row for the same triple.
type Signature struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ITRID     string    `json:"itr_id" gorm:"size:36;not null;uniqueIndex:uniq_itr_user_role"`
	UserID    string    `json:"user_id" gorm:"size:36;not null;uniqueIndex:uniq_itr_user_role"`
	Role      string    `json:"role" gorm:"size:16;not null;uniqueIndex:uniq_itr_user_role"`
	SignedAt  time.Time `json:"signature_date" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Signature) TableName() string {
	return "signatures"
}
