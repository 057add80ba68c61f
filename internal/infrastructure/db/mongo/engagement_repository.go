package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// EngagementRepository mutates the rating/likes/comments fields of content
// documents. Every mutation is a single conditional update so concurrent
// toggles from different subjects can never lose a rating increment.
type EngagementRepository struct {
	db *mongo.Database
}

func NewEngagementRepository(db *mongo.Database) *EngagementRepository {
	return &EngagementRepository{db: db}
}

type ratingView struct {
	Rating int `bson:"rating"`
}

// ToggleLike first attempts a "like": matched only while email is absent from
// the likes set, adding it and incrementing rating atomically. When that
// matches nothing the subject has already liked the document, so the inverse
// "unlike" update runs. A document missing both ways does not exist.
//
// $addToSet and $inc create the likes array and rating counter on documents
// that predate the engagement fields, which covers the missing-field default.
func (r *EngagementRepository) ToggleLike(ctx context.Context, coll domain.Collection, id, email string) (int, bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col := r.db.Collection(string(coll))
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var view ratingView
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "likes": bson.M{"$ne": email}},
		bson.M{"$addToSet": bson.M{"likes": email}, "$inc": bson.M{"rating": 1}},
		after,
	).Decode(&view)
	if err == nil {
		return view.Rating, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, fmt.Errorf("%w: like %s/%s: %v", domain.ErrStorage, coll, id, err)
	}

	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "likes": email},
		bson.M{"$pull": bson.M{"likes": email}, "$inc": bson.M{"rating": -1}},
		after,
	).Decode(&view)
	if err == nil {
		return view.Rating, false, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, fmt.Errorf("%w: this id %s doesn't exist", domain.ErrNotFound, id)
	}
	return 0, false, fmt.Errorf("%w: unlike %s/%s: %v", domain.ErrStorage, coll, id, err)
}

func (r *EngagementRepository) AppendComment(ctx context.Context, coll domain.Collection, id string, c domain.Comment) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.Collection(string(coll)).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": c}},
	)
	if err != nil {
		return fmt.Errorf("%w: append comment %s/%s: %v", domain.ErrStorage, coll, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: this id %s doesn't exist", domain.ErrNotFound, id)
	}
	return nil
}

// RemoveComment pulls the comment by id. A pull that matches no array entry
// still succeeds; only a missing parent document is an error.
func (r *EngagementRepository) RemoveComment(ctx context.Context, coll domain.Collection, id, commentID string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.Collection(string(coll)).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"comments": bson.M{"id": commentID}}},
	)
	if err != nil {
		return fmt.Errorf("%w: remove comment %s/%s: %v", domain.ErrStorage, coll, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: this id %s doesn't exist", domain.ErrNotFound, id)
	}
	return nil
}
