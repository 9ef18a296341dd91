package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gradpath/internal/model"
)

// DocumentRepo archives generated statements of purpose
type DocumentRepo interface {
	Save(ctx context.Context, doc *model.SOPDocument) (string, error)
	ListBySession(ctx context.Context, sessionID string) ([]*model.SOPDocument, error)
}

type documentRepo struct {
	collection *mongo.Collection
}

// NewDocumentRepo creates a MongoDB document archive
func NewDocumentRepo(db *mongo.Database) DocumentRepo {
	return &documentRepo{
		collection: db.Collection("sop_documents"),
	}
}

func (r *documentRepo) Save(ctx context.Context, doc *model.SOPDocument) (string, error) {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	doc.ID = oid.Hex()
	return doc.ID, nil
}

func (r *documentRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.SOPDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []*model.SOPDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

type memoryDocumentRepo struct {
	mu   sync.Mutex
	docs []*model.SOPDocument
}

// NewMemoryDocumentRepo keeps the archive in process memory
func NewMemoryDocumentRepo() DocumentRepo {
	return &memoryDocumentRepo{}
}

func (r *memoryDocumentRepo) Save(ctx context.Context, doc *model.SOPDocument) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	doc.ID = primitive.NewObjectID().Hex()
	cp := *doc
	r.docs = append(r.docs, &cp)
	return doc.ID, nil
}

func (r *memoryDocumentRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.SOPDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.SOPDocument{}
	for i := len(r.docs) - 1; i >= 0; i-- {
		if r.docs[i].SessionID == sessionID {
			cp := *r.docs[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}
