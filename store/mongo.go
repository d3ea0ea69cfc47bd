package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/phillip/charity-ledger-go/models"
)

// Mongo is a CampaignStore backed by MongoDB. Each campaign is one
// document in the "campaigns" collection with its donations embedded,
// so a single ReplaceOne commits the whole aggregate atomically.
// Sequential ids come from a "counters" collection.
type Mongo struct {
	campaigns *mongo.Collection
	counters  *mongo.Collection
}

var _ CampaignStore = (*Mongo)(nil)

func NewMongo(client *mongo.Client, dbName string) *Mongo {
	db := client.Database(dbName)
	return &Mongo{
		campaigns: db.Collection("campaigns"),
		counters:  db.Collection("counters"),
	}
}

func (s *Mongo) NextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "campaigns"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("%w: allocate id: %v", ErrUnavailable, err)
	}
	return counter.Seq, nil
}

func (s *Mongo) Insert(ctx context.Context, c models.Campaign) error {
	if _, err := s.campaigns.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("%w: insert campaign %d: %v", ErrUnavailable, c.ID, err)
	}
	return nil
}

func (s *Mongo) Get(ctx context.Context, id int64) (models.Campaign, error) {
	var c models.Campaign
	err := s.campaigns.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Campaign{}, ErrNotFound
	}
	if err != nil {
		return models.Campaign{}, fmt.Errorf("%w: get campaign %d: %v", ErrUnavailable, id, err)
	}
	return c, nil
}

func (s *Mongo) Replace(ctx context.Context, c models.Campaign) error {
	res, err := s.campaigns.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return fmt.Errorf("%w: replace campaign %d: %v", ErrUnavailable, c.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) List(ctx context.Context) ([]models.Campaign, error) {
	cursor, err := s.campaigns.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("%w: list campaigns: %v", ErrUnavailable, err)
	}

	var campaigns []models.Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, fmt.Errorf("%w: decode campaigns: %v", ErrUnavailable, err)
	}
	return campaigns, nil
}
