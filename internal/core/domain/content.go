package domain

import (
	"fmt"
	"time"
)

// Collection identifies one of the persisted content collections. Handlers
// parse the URL segment into a Collection once; everything below the
// transport layer works with the typed value.
type Collection string

const (
	CollectionProjects Collection = "projects"
	CollectionNews     Collection = "news"
	CollectionMessages Collection = "messages"
	CollectionUsers    Collection = "users"
)

// ParseCollection maps a URL path segment to a known collection.
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(s); c {
	case CollectionProjects, CollectionNews, CollectionMessages, CollectionUsers:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown collection %q", ErrNotFound, s)
}

// Likeable reports whether documents of this collection carry the
// rating/likes/comments engagement fields.
func (c Collection) Likeable() bool {
	return c != CollectionUsers
}

// Document is a schemaless content record. The site stores free-form project,
// news and message bodies; only the engagement fields (rating, likes,
// comments) and the image filename have fixed meaning.
type Document map[string]any

// Comment is an entry in a document's append-only comments array. Username is
// the commenter's email address. Removal is by ID only.
type Comment struct {
	ID       string    `json:"id" bson:"id"`
	Username string    `json:"username" bson:"username"`
	Message  string    `json:"message" bson:"message"`
	Date     time.Time `json:"date" bson:"date"`
}
