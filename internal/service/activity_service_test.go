package service

import (
	"context"
	"testing"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecentAlertsLevelMapping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewActivityService(repository.NewActivityLogRepository(db))
	ctx := context.Background()

	require.NoError(t, svc.Log(ctx, "DELETE", "projects", "p-1", nil))
	require.NoError(t, svc.Log(ctx, "REVOKE_SIGNATURE", "itrs", "itr-1", nil))
	require.NoError(t, svc.Log(ctx, "UPDATE", "projects", "p-1", nil))
	require.NoError(t, svc.Log(ctx, "SIGN_ITR", "itrs", "itr-1", entity.JSONB{"role": "inspector"}))
	require.NoError(t, svc.Log(ctx, "SCHEDULED_TASK_CHECK_DELAYS", "system", "", nil))

	alerts, err := svc.RecentAlerts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 5)

	levels := map[string]string{}
	for _, a := range alerts {
		levels[a.Message] = a.Level
	}
	require.Equal(t, "error", levels["DELETE in projects (p-1)"])
	require.Equal(t, "error", levels["REVOKE_SIGNATURE in itrs (itr-1)"])
	require.Equal(t, "warning", levels["UPDATE in projects (p-1)"])
	require.Equal(t, "success", levels["SIGN_ITR in itrs (itr-1)"])
	require.Equal(t, "info", levels["SCHEDULED_TASK_CHECK_DELAYS in system"])
}

func TestRecentAlertsNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewActivityService(repository.NewActivityLogRepository(db))
	ctx := context.Background()

	require.NoError(t, svc.Log(ctx, "INSERT", "projects", "p-old", nil))
	require.NoError(t, svc.Log(ctx, "INSERT", "projects", "p-new", nil))

	alerts, err := svc.RecentAlerts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Contains(t, alerts[0].Message, "p-new")
}
