package ports

import (
	"context"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// ContentRepository defines persistence for the schemaless content
// collections (projects, news, messages, users).
type ContentRepository interface {
	List(ctx context.Context, coll domain.Collection) ([]domain.Document, error)
	Get(ctx context.Context, coll domain.Collection, id string) (domain.Document, error)
	// Insert stores doc and returns the generated id.
	Insert(ctx context.Context, coll domain.Collection, doc domain.Document) (string, error)
	// Update applies a partial update: only the fields present in doc are set.
	Update(ctx context.Context, coll domain.Collection, id string, doc domain.Document) error
	Delete(ctx context.Context, coll domain.Collection, id string) error
}

// EngagementRepository mutates the like/comment sub-resources of a content
// document. Every operation is a single atomic storage update; there is no
// way to read engagement state and write it back.
type EngagementRepository interface {
	// ToggleLike likes the document when email is not yet in its likes set and
	// unlikes it otherwise, adjusting rating by ±1 in the same operation.
	// Returns the new rating and whether the result is a like.
	ToggleLike(ctx context.Context, coll domain.Collection, id, email string) (rating int, liked bool, err error)
	// AppendComment pushes c onto the document's comments array.
	AppendComment(ctx context.Context, coll domain.Collection, id string, c domain.Comment) error
	// RemoveComment pulls the comment with commentID. Pulling an id that is
	// not present succeeds with no change; a missing document is an error.
	RemoveComment(ctx context.Context, coll domain.Collection, id, commentID string) error
}
