package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository"
)

// MongoDBRepository implements repository.BatchRepository with one document per batch.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	events   repository.Broadcaster
}

var _ repository.BatchRepository = (*MongoDBRepository)(nil)

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "batches",
	}

	_, err = repo.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "start_date", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create batches index: %w", err)
	}

	return repo, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// Create inserts a batch document.
func (r *MongoDBRepository) Create(ctx context.Context, batch models.Batch) (string, error) {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}

	if _, err := r.collection().InsertOne(ctx, batch); err != nil {
		return "", fmt.Errorf("failed to insert batch: %w", err)
	}

	r.publish(repository.EventCreated, batch)
	return batch.ID, nil
}

// Get loads a batch by id.
func (r *MongoDBRepository) Get(ctx context.Context, id string) (models.Batch, error) {
	var batch models.Batch
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&batch)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Batch{}, fmt.Errorf("get batch %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return models.Batch{}, fmt.Errorf("failed to load batch: %w", err)
	}
	return batch, nil
}

// List returns all batches ordered by set date.
func (r *MongoDBRepository) List(ctx context.Context) ([]models.Batch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	batches := []models.Batch{}
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, fmt.Errorf("failed to decode batches: %w", err)
	}
	return batches, nil
}

// Replace overwrites the whole batch document in one write, so regenerated
// tasks and the fields they were derived from are never stored apart.
func (r *MongoDBRepository) Replace(ctx context.Context, id string, batch models.Batch) error {
	batch.ID = id
	res, err := r.collection().ReplaceOne(ctx, bson.M{"_id": id}, batch)
	if err != nil {
		return fmt.Errorf("failed to replace batch: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("replace batch %s: %w", id, repository.ErrNotFound)
	}

	r.publish(repository.EventUpdated, batch)
	return nil
}

// PatchField sets a single field of the batch document.
func (r *MongoDBRepository) PatchField(ctx context.Context, id string, field models.BatchField, value any) error {
	key := field.StorageKey()
	if key == "" {
		return fmt.Errorf("field %q cannot be patched", field)
	}

	var updated models.Batch
	err := r.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{key: value}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("patch batch %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to patch batch %s: %w", key, err)
	}

	r.publish(repository.EventUpdated, updated)
	return nil
}

// Delete removes the batch document.
func (r *MongoDBRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete batch %s: %w", id, repository.ErrNotFound)
	}

	r.events.Publish(repository.ChangeEvent{Type: repository.EventDeleted, BatchID: id})
	return nil
}

// Subscribe registers a listener for writes made through this repository.
func (r *MongoDBRepository) Subscribe(fn func(repository.ChangeEvent)) func() {
	return r.events.Subscribe(fn)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) publish(kind repository.EventType, batch models.Batch) {
	snapshot := batch.Clone()
	r.events.Publish(repository.ChangeEvent{Type: kind, BatchID: batch.ID, Batch: &snapshot})
}
