package farm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/store"
)

func TestRecordCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	at := createRabbits(t, svc)

	created, err := svc.CreateRecord(ctx, &models.FeedRecord{
		RecordBase: models.RecordBase{AnimalTypeID: at.ID, Date: "2026-03-10"},
		FeedType:   "pellets", Quantity: 2.5, Unit: "kg",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-2", created.Meta().ID)

	_, err = svc.CreateRecord(ctx, &models.FeedRecord{
		RecordBase: models.RecordBase{AnimalTypeID: at.ID, Date: "2026-03-12"},
		FeedType:   "hay", Quantity: 1, Unit: "kg",
	})
	require.NoError(t, err)

	list, err := svc.ListRecords(models.KindFeed, at.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-03-12", list[0].Meta().Date, "newest first")

	got, err := svc.GetRecord(models.KindFeed, created.Meta().ID)
	require.NoError(t, err)
	assert.Equal(t, "pellets", got.(*models.FeedRecord).FeedType)

	updated, err := svc.UpdateRecord(ctx, created.Meta().ID, &models.FeedRecord{
		RecordBase: models.RecordBase{AnimalTypeID: at.ID, Date: "2026-03-10"},
		FeedType:   "pellets", Quantity: 3, Unit: "kg",
	})
	require.NoError(t, err)
	assert.Equal(t, created.Meta().ID, updated.Meta().ID)

	got, err = svc.GetRecord(models.KindFeed, created.Meta().ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.(*models.FeedRecord).Quantity)

	require.NoError(t, svc.DeleteRecord(ctx, models.KindFeed, created.Meta().ID))
	_, err = svc.GetRecord(models.KindFeed, created.Meta().ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteRecord(ctx, models.KindFeed, created.Meta().ID), models.ErrNotFound)
}

func TestCreateRecord_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	at := createRabbits(t, svc)

	_, err := svc.CreateRecord(ctx, &models.ProductionRecord{
		RecordBase: models.RecordBase{AnimalTypeID: at.ID, Date: "15/03/2026"},
		Quantity:   -1,
	})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "date")
	assert.Contains(t, verr.Fields, "productType")
	assert.Contains(t, verr.Fields, "quantity")

	_, err = svc.CreateRecord(ctx, &models.ProductionRecord{
		RecordBase:  models.RecordBase{AnimalTypeID: "ghost", Date: "2026-03-15"},
		ProductType: "wool", Quantity: 1,
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "animalTypeId")

	list, err := svc.ListRecords(models.KindProduction, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateRecord_Missing(t *testing.T) {
	svc, _ := newTestService(t)
	at := createRabbits(t, svc)

	_, err := svc.UpdateRecord(context.Background(), "missing", &models.HealthRecord{
		RecordBase: models.RecordBase{AnimalTypeID: at.ID, Date: "2026-03-15"},
		RecordType: models.HealthTreatment, Description: "ear mites",
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUnknownKind(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListRecords(models.RecordKind("eggs"), "")
	assert.ErrorIs(t, err, models.ErrUnknownRecordKind)
	assert.ErrorIs(t, svc.DeleteRecord(context.Background(), "eggs", "x"), models.ErrUnknownRecordKind)
}

func TestListRecords_OrdersByParsedDate(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	at := createRabbits(t, svc)

	for _, date := range []string{"2026-03-09", "2026-03-10T08:00:00Z", "2026-03-11"} {
		_, err := svc.CreateRecord(ctx, &models.HealthRecord{
			RecordBase: models.RecordBase{AnimalTypeID: at.ID, Date: date},
			RecordType: models.HealthCheckup, Description: "weekly check",
		})
		require.NoError(t, err)
	}
	err := store.Update(ctx, st, store.KeyHealthRecords, func(list []models.HealthRecord) ([]models.HealthRecord, error) {
		return append(list, models.HealthRecord{
			RecordBase: models.RecordBase{ID: "legacy", AnimalTypeID: at.ID, Date: "last spring"},
			RecordType: models.HealthCheckup, Description: "imported",
		}), nil
	})
	require.NoError(t, err)

	list, err := svc.ListRecords(models.KindHealth, at.ID)
	require.NoError(t, err)
	var dates []string
	for _, rec := range list {
		dates = append(dates, rec.Meta().Date)
	}
	assert.Equal(t, []string{"2026-03-11", "2026-03-10T08:00:00Z", "2026-03-09", "last spring"}, dates)
}
