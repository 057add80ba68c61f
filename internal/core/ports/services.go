package ports

import (
	"context"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// SessionResolver establishes the caller's identity from the asserted
// username and credential, caching verified sessions.
type SessionResolver interface {
	Resolve(ctx context.Context, username, credential string) (domain.Identity, error)
}

// Authorizer decides whether an identity may perform method on path.
type Authorizer interface {
	// Authorize returns nil when access is granted and domain.ErrForbidden
	// (wrapped with subject, method and path) otherwise.
	Authorize(identity domain.Identity, method, path string) error
	// Bypassed reports whether path is exempt from access control entirely.
	Bypassed(path string) bool
}

// RuleService exposes the runtime-mutable rule table.
type RuleService interface {
	Rules() []domain.AccessRule
	Replace(ctx context.Context, rules []domain.AccessRule) error
}

// EngagementService applies like/comment mutations to content documents.
type EngagementService interface {
	ToggleLike(ctx context.Context, coll domain.Collection, id, email string) (rating int, liked bool, err error)
	AddComment(ctx context.Context, coll domain.Collection, id, username, message string) (commentID string, err error)
	RemoveComment(ctx context.Context, coll domain.Collection, id, commentID string) error
}

// ContentService is the CRUD surface over the content collections.
type ContentService interface {
	List(ctx context.Context, coll domain.Collection) ([]domain.Document, error)
	Get(ctx context.Context, coll domain.Collection, id string) (domain.Document, error)
	Create(ctx context.Context, coll domain.Collection, doc domain.Document) (string, error)
	Update(ctx context.Context, coll domain.Collection, id string, doc domain.Document) error
	Delete(ctx context.Context, coll domain.Collection, id string) error
}

// NotificationInput carries one outbound notification email.
type NotificationInput struct {
	Email   string
	Subject string
	Text    string
	HTML    string
}

// NotificationService dispatches notification emails.
type NotificationService interface {
	Send(ctx context.Context, in NotificationInput) error
}

// UserDirectory answers aggregate questions about provider-managed users.
type UserDirectory interface {
	CountUsers(ctx context.Context) (int, error)
}

// Mailer is the transport-level email collaborator.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// ImageStore persists uploaded image blobs by generated name.
type ImageStore interface {
	// Save decodes a data:image/<ext>;base64 payload and stores it under
	// name, returning the final filename including extension.
	Save(name, dataURL string) (string, error)
	// Remove deletes a stored image; removing a missing file is a no-op.
	Remove(filename string) error
}
