package repository

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gradpath/internal/model"
)

// CostRepo looks up annual university cost records
type CostRepo interface {
	// FindByName returns the first catalog record whose full name contains
	// query case-insensitively, or nil
	FindByName(ctx context.Context, query string) (*model.UniversityCosts, error)
	Upsert(ctx context.Context, c *model.UniversityCosts) error
}

type staticCostRepo struct {
	records []model.UniversityCosts
}

// NewStaticCostRepo serves lookups from an in-memory dataset in order
func NewStaticCostRepo(records []model.UniversityCosts) CostRepo {
	return &staticCostRepo{records: records}
}

func (r *staticCostRepo) FindByName(ctx context.Context, query string) (*model.UniversityCosts, error) {
	for i := range r.records {
		if containsFold(r.records[i].CatalogName, query) {
			c := r.records[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *staticCostRepo) Upsert(ctx context.Context, c *model.UniversityCosts) error {
	for i := range r.records {
		if strings.EqualFold(r.records[i].CatalogName, c.CatalogName) {
			r.records[i] = *c
			return nil
		}
	}
	r.records = append(r.records, *c)
	return nil
}

type costRepo struct {
	collection *mongo.Collection
}

// NewCostRepo creates a MongoDB university cost repository
func NewCostRepo(db *mongo.Database) CostRepo {
	return &costRepo{
		collection: db.Collection("university_costs"),
	}
}

func (r *costRepo) FindByName(ctx context.Context, query string) (*model.UniversityCosts, error) {
	// catalog order decides between several matches, as in the static store
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var c model.UniversityCosts
		if err := cursor.Decode(&c); err != nil {
			return nil, err
		}
		if containsFold(c.CatalogName, query) {
			return &c, nil
		}
	}
	return nil, cursor.Err()
}

func (r *costRepo) Upsert(ctx context.Context, c *model.UniversityCosts) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"catalogName": c.CatalogName}, c, opts)
	return err
}
