package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// ContentRepository implements generic document CRUD over the content
// collections. Documents are schemaless; ids are ObjectIDs exposed as hex.
type ContentRepository struct {
	db *mongo.Database
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) List(ctx context.Context, coll domain.Collection) ([]domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.db.Collection(string(coll)).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrStorage, coll, err)
	}
	defer cur.Close(ctx)

	var docs []domain.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrStorage, coll, err)
	}
	return docs, nil
}

func (r *ContentRepository) Get(ctx context.Context, coll domain.Collection, id string) (domain.Document, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc domain.Document
	err = r.db.Collection(string(coll)).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: this id %s doesn't exist", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get %s/%s: %v", domain.ErrStorage, coll, id, err)
	}
	return doc, nil
}

func (r *ContentRepository) Insert(ctx context.Context, coll domain.Collection, doc domain.Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.Collection(string(coll)).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%w: insert into %s: %v", domain.ErrStorage, coll, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%w: unexpected inserted id type %T", domain.ErrStorage, res.InsertedID)
	}
	return oid.Hex(), nil
}

// Update sets only the fields present in doc, leaving the rest of the
// document untouched.
func (r *ContentRepository) Update(ctx context.Context, coll domain.Collection, id string, doc domain.Document) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.Collection(string(coll)).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": doc})
	if err != nil {
		return fmt.Errorf("%w: update %s/%s: %v", domain.ErrStorage, coll, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: this id %s doesn't exist", domain.ErrNotFound, id)
	}
	return nil
}

func (r *ContentRepository) Delete(ctx context.Context, coll domain.Collection, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.Collection(string(coll)).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", domain.ErrStorage, coll, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: this id %s doesn't exist", domain.ErrNotFound, id)
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.ObjectID{}, fmt.Errorf("%w: malformed id %q", domain.ErrNotFound, id)
	}
	return oid, nil
}
