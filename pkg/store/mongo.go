package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection is the collection cards are indexed in.
const DefaultCollection = "cards"

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"` // defaults to DefaultCollection
}

// MongoStore indexes cards in MongoDB.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects, pings, and ensures the unique identity index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errors.New("mongo store requires a URI and a database")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "record_id", Value: 1}, {Key: "generated_at", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("record_generated_unique"),
	})
	if err != nil {
		return fmt.Errorf("create card index: %w", err)
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, e Entry) error {
	e.GeneratedAt = e.GeneratedAt.Truncate(time.Second).UTC()
	if _, err := s.coll.InsertOne(ctx, e); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrExists
		}
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, recordID int64, generatedAt time.Time) (*Entry, error) {
	filter := bson.D{
		{Key: "record_id", Value: recordID},
		{Key: "generated_at", Value: generatedAt.Truncate(time.Second).UTC()},
	}
	var e Entry
	if err := s.coll.FindOne(ctx, filter).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return &e, nil
}

func (s *MongoStore) List(ctx context.Context, recordID int64) ([]Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "generated_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.D{{Key: "record_id", Value: recordID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	var out []Entry
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
