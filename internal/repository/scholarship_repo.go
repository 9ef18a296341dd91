package repository

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gradpath/internal/model"
)

// ScholarshipRepo searches scholarship records
type ScholarshipRepo interface {
	Search(ctx context.Context, criteria model.ScholarshipCriteria) ([]model.Scholarship, error)
	Upsert(ctx context.Context, s *model.Scholarship) error
}

// MatchScholarship applies the search semantics to one record:
// university and program match case-insensitive substrings, country and
// degree level match case-insensitively in full, and the amount bound is
// inclusive. A record without a field never matches a criterion on it.
func MatchScholarship(c model.ScholarshipCriteria, s model.Scholarship) bool {
	if c.University != "" && (s.University == "" || !containsFold(s.University, c.University)) {
		return false
	}
	if c.Program != "" && (s.Program == "" || !containsFold(s.Program, c.Program)) {
		return false
	}
	if c.Country != "" && !strings.EqualFold(s.Country, c.Country) {
		return false
	}
	if c.DegreeLevel != "" && !strings.EqualFold(s.DegreeLevel, c.DegreeLevel) {
		return false
	}
	if c.MinAmount > 0 && s.Amount < c.MinAmount {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

type staticScholarshipRepo struct {
	records []model.Scholarship
}

// NewStaticScholarshipRepo serves searches from an in-memory dataset
func NewStaticScholarshipRepo(records []model.Scholarship) ScholarshipRepo {
	return &staticScholarshipRepo{records: records}
}

func (r *staticScholarshipRepo) Search(ctx context.Context, criteria model.ScholarshipCriteria) ([]model.Scholarship, error) {
	out := make([]model.Scholarship, 0, len(r.records))
	for _, s := range r.records {
		if MatchScholarship(criteria, s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *staticScholarshipRepo) Upsert(ctx context.Context, s *model.Scholarship) error {
	for i := range r.records {
		if r.records[i].ID == s.ID {
			r.records[i] = *s
			return nil
		}
	}
	r.records = append(r.records, *s)
	return nil
}

type scholarshipRepo struct {
	collection *mongo.Collection
}

// NewScholarshipRepo creates a MongoDB scholarship repository
func NewScholarshipRepo(db *mongo.Database) ScholarshipRepo {
	return &scholarshipRepo{
		collection: db.Collection("scholarships"),
	}
}

func (r *scholarshipRepo) Search(ctx context.Context, criteria model.ScholarshipCriteria) ([]model.Scholarship, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, scholarshipFilter(criteria), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []model.Scholarship{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scholarshipRepo) Upsert(ctx context.Context, s *model.Scholarship) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, opts)
	return err
}

// scholarshipFilter mirrors MatchScholarship as a MongoDB query
func scholarshipFilter(c model.ScholarshipCriteria) bson.M {
	filter := bson.M{}
	if c.University != "" {
		filter["university"] = primitive.Regex{Pattern: regexp.QuoteMeta(c.University), Options: "i"}
	}
	if c.Program != "" {
		filter["program"] = primitive.Regex{Pattern: regexp.QuoteMeta(c.Program), Options: "i"}
	}
	if c.Country != "" {
		filter["country"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(c.Country) + "$", Options: "i"}
	}
	if c.DegreeLevel != "" {
		filter["degreeLevel"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(c.DegreeLevel) + "$", Options: "i"}
	}
	if c.MinAmount > 0 {
		filter["amount"] = bson.M{"$gte": c.MinAmount}
	}
	return filter
}
