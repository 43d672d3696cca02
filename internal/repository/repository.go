package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Shared repository errors
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the repository registry wired once at startup.
type Repositories struct {
	User        *UserRepository
	Project     *ProjectRepository
	System      *SystemRepository
	Subsystem   *SubsystemRepository
	ITR         *ITRRepository
	Signature   *SignatureRepository
	TestPack    *TestPackRepository
	Report      *ReportRepository
	ActivityLog *ActivityLogRepository
}

// NewRepositories creates the repository registry.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Project:     NewProjectRepository(db),
		System:      NewSystemRepository(db),
		Subsystem:   NewSubsystemRepository(db),
		ITR:         NewITRRepository(db),
		Signature:   NewSignatureRepository(db),
		TestPack:    NewTestPackRepository(db),
		Report:      NewReportRepository(db),
		ActivityLog: NewActivityLogRepository(db),
	}
}
