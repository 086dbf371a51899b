package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

const dailyReportsCollection = "daily_reports"

// Repository archives daily per-animal-type reports.
type Repository interface {
	SaveDailyReports(ctx context.Context, reports []models.DailyReport) error
	ListDailyReports(ctx context.Context, animalTypeID string, from, to time.Time) ([]models.DailyReport, error)
}

// MongoDBRepository implements Repository on a MongoDB collection.
type MongoDBRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoDBRepository connects, pings and ensures the archive index.
func NewMongoDBRepository(ctx context.Context, uri, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{
		client: client,
		coll:   client.Database(dbName).Collection(dailyReportsCollection),
		logger: logger,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return r, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}, {Key: "animal_type_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("date_animal_type"),
	})
	if err != nil {
		return fmt.Errorf("create daily report index: %w", err)
	}
	return nil
}

// SaveDailyReports upserts one document per (date, animal type), so rerunning
// the archive job for the same day replaces rather than duplicates.
func (r *MongoDBRepository) SaveDailyReports(ctx context.Context, reports []models.DailyReport) error {
	if len(reports) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(reports))
	for _, report := range reports {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(reportKey(report)).
			SetReplacement(report).
			SetUpsert(true))
	}

	res, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to upsert daily reports: %w", err)
	}

	r.logger.Debug("daily reports archived",
		zap.Int64("upserted", res.UpsertedCount),
		zap.Int64("modified", res.ModifiedCount))
	return nil
}

// ListDailyReports returns archived reports between from and to, oldest first.
// An empty animalTypeID matches every type.
func (r *MongoDBRepository) ListDailyReports(ctx context.Context, animalTypeID string, from, to time.Time) ([]models.DailyReport, error) {
	cur, err := r.coll.Find(ctx, rangeFilter(animalTypeID, from, to),
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "animal_type_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reports: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.DailyReport
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode daily reports: %w", err)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func reportKey(report models.DailyReport) bson.D {
	return bson.D{
		{Key: "date", Value: report.Date},
		{Key: "animal_type_id", Value: report.AnimalTypeID},
	}
}

func rangeFilter(animalTypeID string, from, to time.Time) bson.D {
	filter := bson.D{{Key: "date", Value: bson.D{
		{Key: "$gte", Value: models.Day(from)},
		{Key: "$lte", Value: models.Day(to)},
	}}}
	if animalTypeID != "" {
		filter = append(filter, bson.E{Key: "animal_type_id", Value: animalTypeID})
	}
	return filter
}
