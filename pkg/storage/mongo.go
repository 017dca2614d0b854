package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
)

// CollectionScenes is the MongoDB collection holding scene records.
const CollectionScenes = "scenes"

// MongoConfig configures a [MongoRepository].
type MongoConfig struct {
	URI      string
	Database string

	// Timeout bounds connection setup. Zero means 10s.
	Timeout time.Duration
}

// MongoRepository stores records in a MongoDB collection, one document
// per scene keyed by _id.
type MongoRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// NewMongoRepository connects to MongoDB and pings the primary.
func NewMongoRepository(ctx context.Context, cfg MongoConfig, logger *log.Logger) (*MongoRepository, error) {
	if cfg.Database == "" {
		return nil, scerrors.New(scerrors.ErrCodeInvalidInput, "mongo database name is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(CollectionScenes)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: -1}},
	})
	if err != nil {
		logger.Warn("could not create index", "collection", CollectionScenes, "err", err)
	}

	logger.Debug("connected to mongo", "database", cfg.Database)
	return &MongoRepository{client: client, coll: coll, logger: logger}, nil
}

// Save upserts rec, preserving CreatedAt of an existing document.
func (r *MongoRepository) Save(ctx context.Context, rec *Record) error {
	if rec != nil && rec.ID != "" && rec.CreatedAt.IsZero() {
		var old Record
		err := r.coll.FindOne(ctx, bson.M{"_id": rec.ID},
			options.FindOne().SetProjection(bson.M{"created_at": 1})).Decode(&old)
		if err == nil {
			rec.CreatedAt = old.CreatedAt
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return scerrors.Wrap(scerrors.ErrCodeInternal, err, "load scene %q", rec.ID)
		}
	}
	if err := prepare(rec, time.Now().UTC().Truncate(time.Millisecond)); err != nil {
		return err
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return scerrors.Wrap(scerrors.ErrCodeInternal, err, "save scene %q", rec.ID)
	}
	return nil
}

// Get fetches the record with the given ID.
func (r *MongoRepository) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, scerrors.Wrap(scerrors.ErrCodeInternal, err, "get scene %q", id)
	}
	return &rec, nil
}

// List returns all records, most recently updated first.
func (r *MongoRepository) List(ctx context.Context) ([]*Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, scerrors.Wrap(scerrors.ErrCodeInternal, err, "list scenes")
	}
	defer cur.Close(ctx)

	out := []*Record{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, scerrors.Wrap(scerrors.ErrCodeInternal, err, "decode scenes")
	}
	return out, nil
}

// Delete removes the record with the given ID.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return scerrors.Wrap(scerrors.ErrCodeInternal, err, "delete scene %q", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

var _ Repository = (*MongoRepository)(nil)
