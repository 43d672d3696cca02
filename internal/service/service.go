package service

import (
	"errors"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/config"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/mailer"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Business-rule errors. Store errors pass through wrapped but untranslated.
var (
	ErrDuplicateSignature = errors.New("duplicate signature")
	ErrValidation         = errors.New("validation failed")
	ErrHasChildren        = errors.New("record has dependent children")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Services is the service registry wired once at startup.
type Services struct {
	Auth      *AuthService
	User      *UserService
	Project   *ProjectService
	System    *SystemService
	Subsystem *SubsystemService
	ITR       *ITRService
	Signature *SignatureService
	TestPack  *TestPackService
	Delay     *DelayService
	Report    *ReportService
	Export    *ExportService
	Dashboard *DashboardService
	Activity  *ActivityService
}

// NewServices creates the service registry.
func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	// Email relay client; nil when not configured, callers degrade to
	// report-only behavior.
	var mailClient *mailer.Client
	if cfg.Mailer.Endpoint != "" {
		mailClient = mailer.NewClient(cfg.Mailer.Endpoint, cfg.Mailer.APIKey, cfg.Mailer.From, cfg.Mailer.Timeout)
	}

	// MinIO report archive; optional.
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("MinIO unavailable, report archive disabled", zap.Error(err))
			minioClient = nil
		}
	}

	activitySvc := NewActivityService(repos.ActivityLog)
	delaySvc := NewDelayService(repos.Project, repos.System, repos.Subsystem, repos.ITR)

	return &Services{
		Auth:      NewAuthService(repos.User, rdb, cfg),
		User:      NewUserService(repos.User, activitySvc),
		Project:   NewProjectService(repos.Project, activitySvc),
		System:    NewSystemService(repos.System, repos.Project, activitySvc),
		Subsystem: NewSubsystemService(repos.Subsystem, repos.System, activitySvc),
		ITR:       NewITRService(repos.ITR, repos.Subsystem, activitySvc),
		Signature: NewSignatureService(db, repos.Signature),
		TestPack:  NewTestPackService(repos.TestPack, activitySvc),
		Delay:     delaySvc,
		Report:    NewReportService(repos.Report, repos.Project, repos.ITR, delaySvc, mailClient, activitySvc, logger),
		Export:    NewExportService(repos, minioClient, cfg.MinIO.Bucket, activitySvc, logger),
		Dashboard: NewDashboardService(db, rdb, delaySvc),
		Activity:  activitySvc,
	}
}
