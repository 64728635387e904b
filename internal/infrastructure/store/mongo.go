package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/consumewise/backend/internal/domain"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoDocument is the stored form of a product: the record fields at the
// top level plus the generated _id
type mongoDocument struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	domain.ProductRecord `bson:",inline"`
}

// MongoStore implements domain.ProductRepository on a MongoDB collection
type MongoStore struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoStore creates a store backed by an existing collection
func NewMongoStore(collection *mongo.Collection, logger zerolog.Logger) *MongoStore {
	return &MongoStore{
		collection: collection,
		logger:     logger.With().Str("repository", "mongo").Str("collection", collection.Name()).Logger(),
	}
}

// ConnectMongo connects to uri, verifies the connection and ensures the
// product name index exists. The returned function disconnects the client.
func ConnectMongo(ctx context.Context, uri, database, collection string, logger zerolog.Logger) (*MongoStore, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	store := NewMongoStore(client.Database(database).Collection(collection), logger)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	logger.Info().
		Str("database", database).
		Str("collection", collection).
		Msg("connected to mongo")

	return store, client.Disconnect, nil
}

// EnsureIndexes creates the index used by exact name lookups
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "productName", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create productName index: %w", err)
	}
	return nil
}

// Insert stores the record with a single InsertOne
func (s *MongoStore) Insert(ctx context.Context, record *domain.ProductRecord) (string, error) {
	result, err := s.collection.InsertOne(ctx, mongoDocument{ProductRecord: *record})
	if err != nil {
		s.logger.Error().Err(err).Str("product", record.ProductName).Msg("failed to insert product")
		return "", fmt.Errorf("failed to insert product: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(result.InsertedID), nil
	}
	return id.Hex(), nil
}

// FindByNameContains runs an unanchored, case-insensitive regex on
// productName. The term is quoted so it only ever matches literally.
func (s *MongoStore) FindByNameContains(ctx context.Context, term string) ([]domain.StoredProduct, error) {
	filter := bson.M{
		"productName": primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"},
	}

	// _id order is insertion order for driver generated ObjectIDs
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error().Err(err).Str("term", term).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.StoredProduct
	for cursor.Next(ctx) {
		var doc mongoDocument
		if err := cursor.Decode(&doc); err != nil {
			s.logger.Error().Err(err).Msg("failed to decode product document")
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.toStored())
	}

	if err := cursor.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating product cursor")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindOneByName returns the product whose name equals name exactly
func (s *MongoStore) FindOneByName(ctx context.Context, name string) (*domain.StoredProduct, error) {
	var doc mongoDocument
	err := s.collection.FindOne(ctx, bson.M{"productName": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Debug().Str("product", name).Msg("product not found")
			return nil, domain.ErrProductNotFound
		}
		s.logger.Error().Err(err).Str("product", name).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	stored := doc.toStored()
	return &stored, nil
}

func (d *mongoDocument) toStored() domain.StoredProduct {
	return domain.StoredProduct{
		ID:            d.ID.Hex(),
		ProductRecord: d.ProductRecord,
	}
}
