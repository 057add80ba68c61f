package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

const collectionRules = "access-rules"

// RuleRepository persists the access-control table, one document per rule,
// ordered by an explicit sequence field so Load returns rules in the order
// they were submitted.
type RuleRepository struct {
	col *mongo.Collection
}

func NewRuleRepository(db *mongo.Database) *RuleRepository {
	return &RuleRepository{col: db.Collection(collectionRules)}
}

type ruleDoc struct {
	Seq    int         `bson:"seq"`
	Method string      `bson:"method"`
	Path   string      `bson:"path"`
	Role   domain.Role `bson:"role"`
}

func (r *RuleRepository) Load(ctx context.Context) ([]domain.AccessRule, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: load rules: %v", domain.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var docs []ruleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode rules: %v", domain.ErrStorage, err)
	}

	rules := make([]domain.AccessRule, len(docs))
	for i, d := range docs {
		rules[i] = domain.AccessRule{Method: d.Method, Path: d.Path, Role: d.Role}
	}
	return rules, nil
}

// Replace overwrites the stored table. The two steps are not transactional;
// the caller only swaps its in-memory table after this returns nil, so a
// failed insert leaves the process serving the previous rules until the next
// successful replace.
func (r *RuleRepository) Replace(ctx context.Context, rules []domain.AccessRule) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("%w: clear rules: %v", domain.ErrStorage, err)
	}

	docs := make([]any, len(rules))
	for i, rule := range rules {
		docs[i] = ruleDoc{Seq: i, Method: rule.Method, Path: rule.Path, Role: rule.Role}
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%w: insert rules: %v", domain.ErrStorage, err)
	}
	return nil
}
