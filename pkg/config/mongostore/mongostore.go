// Package mongostore keeps a configuration document in a single MongoDB
// document, one per store ID.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/helixlang/helixconf/pkg/config/configstore"
	"github.com/helixlang/helixconf/pkg/helixconf"
)

// Ensure MongoStore implements the ConfigStore interface
var _ configstore.ConfigStore = (*MongoStore)(nil)

type MongoStore struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	ID         string // document ID, e.g. the consuming service name
}

func New(uri, dbName, collName, id string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	//  ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStore{
		Client:     client,
		Collection: client.Database(dbName).Collection(collName),
		ID:         id,
	}, nil
}

// Load fetches the document for this store ID and rebuilds a Config from
// its "data" field.
func (m *MongoStore) Load() (*helixconf.Config, error) {
	filter := bson.M{"_id": m.ID}
	res := m.Collection.FindOne(context.Background(), filter)

	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("document with ID %q not found", m.ID)
		}
		return nil, fmt.Errorf("MongoDB FindOne failed: %w", err)
	}

	var doc struct {
		Data bson.Raw `bson:"data"`
	}
	if err := res.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	jsonBytes, err := bson.MarshalExtJSON(doc.Data, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document to JSON: %w", err)
	}
	cfg, err := helixconf.FromBytes(jsonBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return cfg, nil
}

// Save compiles the document and upserts it under this store ID.
func (m *MongoStore) Save(cfg *helixconf.Config) error {
	if cfg == nil {
		return fmt.Errorf("Save: input parameter must not be nil")
	}

	jsonBytes, err := cfg.Compile()
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	var data bson.M
	if err := bson.UnmarshalExtJSON(jsonBytes, false, &data); err != nil {
		return fmt.Errorf("Save: failed to convert configuration to BSON: %w", err)
	}

	_, err = m.Collection.ReplaceOne(
		context.Background(),
		bson.M{"_id": m.ID},
		bson.M{"_id": m.ID, "data": data},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("Save: MongoDB ReplaceOne failed: %w", err)
	}
	return nil
}

func (m *MongoStore) Watch(onChange func()) error {
	return fmt.Errorf("Watch not implemented for MongoDB store")
}
