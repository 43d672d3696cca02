package service

import (
	"context"
	"testing"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupReportTest(t *testing.T) (*gorm.DB, *ReportService) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	delaySvc := NewDelayService(
		repository.NewProjectRepository(db),
		repository.NewSystemRepository(db),
		repository.NewSubsystemRepository(db),
		repository.NewITRRepository(db),
	)
	svc := NewReportService(
		repository.NewReportRepository(db),
		repository.NewProjectRepository(db),
		repository.NewITRRepository(db),
		delaySvc,
		nil, // no mailer in tests
		NewActivityService(repository.NewActivityLogRepository(db)),
		zap.NewNop(),
	)
	return db, svc
}

func TestShouldRunDaily(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)

	fire, _ := shouldRun(entity.ReportCadenceDaily, entity.ScheduleSettings{
		Daily: entity.CadenceSetting{Enabled: true, Time: "08:00"},
	}, now)
	require.True(t, fire)

	fire, reason := shouldRun(entity.ReportCadenceDaily, entity.ScheduleSettings{
		Daily: entity.CadenceSetting{Enabled: false},
	}, now)
	require.False(t, fire)
	require.Equal(t, "Daily reports are disabled", reason)
}

func TestShouldRunWeeklyMatchesWeekdayCaseInsensitive(t *testing.T) {
	// 2026-03-16 is a Monday.
	monday := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)

	for _, day := range []string{"Monday", "monday", "MONDAY"} {
		fire, _ := shouldRun(entity.ReportCadenceWeekly, entity.ScheduleSettings{
			Weekly: entity.CadenceSetting{Enabled: true, Day: day},
		}, monday)
		require.True(t, fire, "day spelling %q should match", day)
	}

	fire, reason := shouldRun(entity.ReportCadenceWeekly, entity.ScheduleSettings{
		Weekly: entity.CadenceSetting{Enabled: true, Day: "Friday"},
	}, monday)
	require.False(t, fire)
	require.Contains(t, reason, "Friday")
}

func TestShouldRunMonthlyMatchesDayOfMonth(t *testing.T) {
	fifteenth := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	fire, _ := shouldRun(entity.ReportCadenceMonthly, entity.ScheduleSettings{
		Monthly: entity.CadenceSetting{Enabled: true, Day: "15"},
	}, fifteenth)
	require.True(t, fire)

	fire, _ = shouldRun(entity.ReportCadenceMonthly, entity.ScheduleSettings{
		Monthly: entity.CadenceSetting{Enabled: true, Day: "1"},
	}, fifteenth)
	require.False(t, fire)
}

func TestShouldRunUnknownCadence(t *testing.T) {
	fire, reason := shouldRun("hourly", entity.ScheduleSettings{}, time.Now())
	require.False(t, fire)
	require.Contains(t, reason, "hourly")
}

func TestUpdateScheduleSingleton(t *testing.T) {
	db, svc := setupReportTest(t)
	ctx := context.Background()

	schedule, err := svc.GetSchedule(ctx)
	require.NoError(t, err)
	require.Nil(t, schedule, "unset schedule reads as nil")

	first, err := svc.UpdateSchedule(ctx, entity.ScheduleSettings{
		Daily: entity.CadenceSetting{Enabled: true, Time: "08:00"},
	})
	require.NoError(t, err)

	second, err := svc.UpdateSchedule(ctx, entity.ScheduleSettings{
		Weekly: entity.CadenceSetting{Enabled: true, Day: "Monday", Time: "09:00"},
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "updates must reuse the singleton row")

	var count int64
	require.NoError(t, db.Model(&entity.ReportSchedule{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	stored, err := svc.GetSchedule(ctx)
	require.NoError(t, err)
	require.False(t, stored.Settings.Daily.Enabled)
	require.True(t, stored.Settings.Weekly.Enabled)
	require.Equal(t, "Monday", stored.Settings.Weekly.Day)
}

func TestAddRecipientValidatesEmail(t *testing.T) {
	_, svc := setupReportTest(t)
	ctx := context.Background()

	_, err := svc.AddRecipient(ctx, "not-an-email")
	require.ErrorIs(t, err, ErrValidation)

	recipient, err := svc.AddRecipient(ctx, "  ops@plant.com  ")
	require.NoError(t, err)
	require.Equal(t, "ops@plant.com", recipient.Email)
}

func TestAddRecipientDuplicateEmail(t *testing.T) {
	db, svc := setupReportTest(t)
	ctx := context.Background()

	_, err := svc.AddRecipient(ctx, "ops@plant.com")
	require.NoError(t, err)

	_, err = svc.AddRecipient(ctx, "ops@plant.com")
	require.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, db.Model(&entity.ReportRecipient{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestRemoveRecipientNotFound(t *testing.T) {
	_, svc := setupReportTest(t)

	err := svc.RemoveRecipient(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCheckDelaysNoDelays(t *testing.T) {
	_, svc := setupReportTest(t)

	result, err := svc.RunTask(context.Background(), TaskCheckDelays)
	require.NoError(t, err)
	require.Equal(t, "No delays detected", result.Message)
	require.Zero(t, result.Delays)
	require.False(t, result.Sent)
}

func TestCheckDelaysWithoutRecipients(t *testing.T) {
	db, svc := setupReportTest(t)
	past := time.Now().AddDate(0, 0, -5)

	require.NoError(t, db.Create(&entity.Project{
		ID: "p-late", Name: "Late Plant", Status: entity.StatusInProgress, EndDate: &past,
	}).Error)

	result, err := svc.RunTask(context.Background(), TaskCheckDelays)
	require.NoError(t, err)
	require.Equal(t, 1, result.Delays)
	require.Equal(t, "No recipients configured for alerts", result.Message)
	require.False(t, result.Sent)
}

func TestCheckDelaysWithoutMailer(t *testing.T) {
	db, svc := setupReportTest(t)
	past := time.Now().AddDate(0, 0, -5)

	require.NoError(t, db.Create(&entity.Project{
		ID: "p-late", Name: "Late Plant", Status: entity.StatusInProgress, EndDate: &past,
	}).Error)
	_, err := svc.AddRecipient(context.Background(), "ops@plant.com")
	require.NoError(t, err)

	result, err := svc.RunTask(context.Background(), TaskCheckDelays)
	require.NoError(t, err)
	require.Equal(t, 1, result.Delays)
	require.Equal(t, 1, result.Recipients)
	require.Equal(t, "Mailer not configured, alerts not sent", result.Message)
	require.False(t, result.Sent)
}

func TestWeeklyReportGateBlocksWrongDay(t *testing.T) {
	_, svc := setupReportTest(t)
	ctx := context.Background()

	_, err := svc.UpdateSchedule(ctx, entity.ScheduleSettings{
		Weekly: entity.CadenceSetting{Enabled: true, Day: "Friday", Time: "08:00"},
	})
	require.NoError(t, err)
	_, err = svc.AddRecipient(ctx, "ops@plant.com")
	require.NoError(t, err)

	// Pin the clock to a Monday.
	svc.nowFn = func() time.Time { return time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC) }

	result, err := svc.RunTask(ctx, TaskSendWeeklyReport)
	require.NoError(t, err)
	require.False(t, result.Sent)
	require.Contains(t, result.Message, "Friday")
}

func TestCadenceReportWithoutSchedule(t *testing.T) {
	_, svc := setupReportTest(t)

	result, err := svc.RunTask(context.Background(), TaskSendDailyReport)
	require.NoError(t, err)
	require.Equal(t, "No report schedule found", result.Message)
	require.False(t, result.Sent)
}

func TestRunTaskUnknown(t *testing.T) {
	_, svc := setupReportTest(t)

	_, err := svc.RunTask(context.Background(), "make_coffee")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRenderDelayAlert(t *testing.T) {
	body, err := renderDelayAlert([]Delay{
		{EntityType: "project", EntityID: "p-1", EntityName: "Gas Plant", DueDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	require.Contains(t, body, `Project "Gas Plant" is delayed`)
	require.Contains(t, body, "2026-03-01")
}
