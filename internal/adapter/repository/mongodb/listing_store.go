package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingsCollectionName = "listings"

var ErrListingNotFound = errors.New("listing not found")

// ListingStore writes composed listing records to MongoDB.
type ListingStore struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingStore(db *mongo.Database, log *logger.Logger) (*ListingStore, error) {
	collection := db.Collection(listingsCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}}, // category pages, newest first
		{Keys: bson.D{{Key: "user_ref", Value: 1}}},
		{Keys: bson.D{{Key: "geohash", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for listings collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for listings collection")
	}

	return &ListingStore{
		collection: collection,
		logger:     log.Named("ListingStore"),
	}, nil
}

// Commit inserts record as a new document and returns its id. The upsert targets a
// fresh ObjectID so it always inserts, and $currentDate lets the server stamp
// created_at.
func (s *ListingStore) Commit(ctx context.Context, record *domain.ListingRecord) (string, error) {
	id := primitive.NewObjectID()
	update := bson.D{
		{Key: "$setOnInsert", Value: toListingDocument(record)},
		{Key: "$currentDate", Value: bson.D{{Key: "created_at", Value: true}}},
	}

	res, err := s.collection.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update, options.Update().SetUpsert(true))
	if err != nil {
		s.logger.Error("Failed to insert listing into DB", zap.String("user_ref", record.OwnerID), zap.Error(err))
		return "", fmt.Errorf("db insert failed: %w", err)
	}
	if res.UpsertedCount != 1 {
		return "", fmt.Errorf("db insert failed: expected one inserted document, got %d", res.UpsertedCount)
	}

	s.logger.Info("Listing created successfully in DB", zap.String("listing_id", id.Hex()), zap.String("type", string(record.Kind)))
	return id.Hex(), nil
}

// FindByID reads a committed record back, including its server timestamp.
func (s *ListingStore) FindByID(ctx context.Context, id string) (*domain.ListingRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid listing id %q: %w", id, err)
	}
	var doc storedListing
	if err := s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	return toDomainRecord(&doc), nil
}
