package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupExportTest(t *testing.T) (*ExportService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewExportService(repos, nil, "", NewActivityService(repos.ActivityLog), zap.NewNop())
	return svc, repos
}

func TestExportProjectsWorkbook(t *testing.T) {
	svc, repos := setupExportTest(t)
	ctx := context.Background()

	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Project.Create(ctx, &entity.Project{
		ID:       "p-1",
		Name:     "Vaca Muerta Gas Plant",
		Location: "Neuquén",
		Status:   entity.StatusInProgress,
		Progress: 40,
		EndDate:  &end,
	}))

	f, filename, err := svc.ExportEntities(ctx, "projects")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(filename, "projects-"))
	require.True(t, strings.HasSuffix(filename, ".xlsx"))

	header, err := f.GetCellValue("projects", "B1")
	require.NoError(t, err)
	require.Equal(t, "Name", header)

	name, err := f.GetCellValue("projects", "B2")
	require.NoError(t, err)
	require.Equal(t, "Vaca Muerta Gas Plant", name)

	progress, err := f.GetCellValue("projects", "E2")
	require.NoError(t, err)
	require.Equal(t, "40%", progress)

	endDate, err := f.GetCellValue("projects", "G2")
	require.NoError(t, err)
	require.Equal(t, "2026-06-30", endDate)
}

func TestExportUnknownEntityType(t *testing.T) {
	svc, _ := setupExportTest(t)

	_, _, err := svc.ExportEntities(context.Background(), "pipelines")
	require.ErrorIs(t, err, ErrValidation)
}

func TestExportEmptyTable(t *testing.T) {
	svc, _ := setupExportTest(t)

	f, _, err := svc.ExportEntities(context.Background(), "users")
	require.NoError(t, err)

	header, err := f.GetCellValue("users", "A1")
	require.NoError(t, err)
	require.Equal(t, "ID", header)
}
