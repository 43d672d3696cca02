package service

import (
	"context"
	"testing"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestPackTest(t *testing.T) (*gorm.DB, *TestPackService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewTestPackService(
		repository.NewTestPackRepository(db),
		NewActivityService(repository.NewActivityLogRepository(db)),
	)
	return db, svc
}

func seedTestPack(t *testing.T, svc *TestPackService) *entity.TestPack {
	t.Helper()
	pack, err := svc.Create(context.Background(), CreateTestPackRequest{
		NombrePaquete: "TP-Compresión-01",
		ITRAsociado:   "Loop Check 42-PT-101",
		Sistema:       "Compresión",
		Subsistema:    "Skid A",
	})
	require.NoError(t, err)
	return pack
}

func TestTestPackCreateDefaults(t *testing.T) {
	_, svc := setupTestPackTest(t)
	pack := seedTestPack(t, svc)

	require.Equal(t, entity.TestPackEstadoPendiente, pack.Estado)
}

func TestTestPackCreateValidation(t *testing.T) {
	_, svc := setupTestPackTest(t)

	_, err := svc.Create(context.Background(), CreateTestPackRequest{
		NombrePaquete: "  ",
		ITRAsociado:   "x",
		Sistema:       "y",
		Subsistema:    "z",
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestReleaseLastTagFlipsPack(t *testing.T) {
	_, svc := setupTestPackTest(t)
	ctx := context.Background()
	pack := seedTestPack(t, svc)

	tag1, err := svc.CreateTag(ctx, CreateTagRequest{TestPackID: pack.ID, TagName: "42-PT-101"})
	require.NoError(t, err)
	tag2, err := svc.CreateTag(ctx, CreateTagRequest{TestPackID: pack.ID, TagName: "42-PT-102"})
	require.NoError(t, err)

	released, err := svc.ReleaseTag(ctx, tag1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TagEstadoLiberado, released.Estado)
	require.NotNil(t, released.FechaLiberacion)

	// One pending tag left, pack stays pending
	current, err := svc.Get(ctx, pack.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TestPackEstadoPendiente, current.Estado)

	_, err = svc.ReleaseTag(ctx, tag2.ID)
	require.NoError(t, err)

	current, err = svc.Get(ctx, pack.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TestPackEstadoListo, current.Estado)
}

func TestReleaseTagIdempotent(t *testing.T) {
	_, svc := setupTestPackTest(t)
	ctx := context.Background()
	pack := seedTestPack(t, svc)

	tag, err := svc.CreateTag(ctx, CreateTagRequest{TestPackID: pack.ID, TagName: "42-PT-101"})
	require.NoError(t, err)

	first, err := svc.ReleaseTag(ctx, tag.ID)
	require.NoError(t, err)
	firstDate := *first.FechaLiberacion

	second, err := svc.ReleaseTag(ctx, tag.ID)
	require.NoError(t, err)
	require.Equal(t, firstDate, *second.FechaLiberacion, "re-release must not restamp the date")
}

func TestCreateTagOnMissingPack(t *testing.T) {
	_, svc := setupTestPackTest(t)

	_, err := svc.CreateTag(context.Background(), CreateTagRequest{
		TestPackID: "no-such-pack",
		TagName:    "42-PT-101",
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}
