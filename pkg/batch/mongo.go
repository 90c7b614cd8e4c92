package batch

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoSink persists records to a MongoDB collection, one document per
// scored pair. Records keep their uuid as the document _id, so re-running a
// batch appends rather than overwrites.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSink connects to MongoDB and verifies the connection with a ping.
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoSink{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// NewMongoSinkFromCollection wraps an existing collection. Close is a no-op
// in this mode; the caller owns the client.
func NewMongoSinkFromCollection(coll *mongo.Collection) *MongoSink {
	return &MongoSink{coll: coll}
}

// Write inserts one record.
func (s *MongoSink) Write(ctx context.Context, rec Record) error {
	_, err := s.coll.InsertOne(ctx, rec)
	return err
}

// Close disconnects the underlying client, if this sink owns it.
func (s *MongoSink) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Ensure MongoSink implements Sink.
var _ Sink = (*MongoSink)(nil)
