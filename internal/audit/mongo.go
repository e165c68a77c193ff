package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionName = "auditoria"
	maxRecent      = 500
)

// MongoLog stores events in the "auditoria" collection.
type MongoLog struct {
	collection *mongo.Collection
}

func NewMongoLog(db *mongo.Database) *MongoLog {
	return &MongoLog{collection: db.Collection(collectionName)}
}

// Connect opens a MongoDB client and checks it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func (m *MongoLog) Record(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = primitive.NewObjectID().Hex()
	}
	if e.CriadoEm.IsZero() {
		e.CriadoEm = time.Now().UTC()
	}
	if _, err := m.collection.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent returns the newest events first.
func (m *MongoLog) Recent(ctx context.Context, limit int64) ([]Event, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "criadoEm", Value: -1}}).
		SetLimit(limit)

	cursor, err := m.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}
	return events, nil
}
