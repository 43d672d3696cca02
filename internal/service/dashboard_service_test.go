package service

import (
	"context"
	"testing"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummaryCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	delaySvc := NewDelayService(
		repository.NewProjectRepository(db),
		repository.NewSystemRepository(db),
		repository.NewSubsystemRepository(db),
		repository.NewITRRepository(db),
	)
	svc := NewDashboardService(db, nil, delaySvc)
	ctx := context.Background()

	past := time.Now().AddDate(0, 0, -2)
	require.NoError(t, db.Create(&entity.Project{
		ID: "p-1", Name: "Plant A", Status: entity.StatusInProgress, Progress: 40, EndDate: &past,
	}).Error)
	require.NoError(t, db.Create(&entity.Project{
		ID: "p-2", Name: "Plant B", Status: entity.StatusComplete, Progress: 100,
	}).Error)
	require.NoError(t, db.Create(&entity.System{ID: "sys-1", Name: "Compression", ProjectID: "p-1"}).Error)
	require.NoError(t, db.Create(&entity.ITR{
		ID: "itr-1", Name: "Loop Check", Status: entity.StatusPending, SubsystemID: "sub-1",
	}).Error)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	require.Equal(t, int64(2), summary.TotalProjects)
	require.Equal(t, int64(1), summary.TotalSystems)
	require.Equal(t, int64(1), summary.TotalITRs)
	require.Equal(t, int64(1), summary.Projects.InProgress)
	require.Equal(t, int64(1), summary.Projects.Complete)
	require.Equal(t, int64(1), summary.ITRs.Pending)
	require.InDelta(t, 70.0, summary.AvgProgress, 0.01)
	require.Equal(t, 1, summary.PendingDelays, "overdue inprogress project counts as delay")
}

func TestDashboardSummaryEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	delaySvc := NewDelayService(
		repository.NewProjectRepository(db),
		repository.NewSystemRepository(db),
		repository.NewSubsystemRepository(db),
		repository.NewITRRepository(db),
	)
	svc := NewDashboardService(db, nil, delaySvc)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Zero(t, summary.TotalProjects)
	require.Zero(t, summary.AvgProgress)
	require.Zero(t, summary.PendingDelays)
}
