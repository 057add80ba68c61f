package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// EngagementService implements the like toggle and comment mutations over
// any likeable content collection. All state changes go through single
// atomic repository operations; this service never reads-then-writes.
type EngagementService struct {
	repo     ports.EngagementRepository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewEngagementService(repo ports.EngagementRepository, log zerolog.Logger) *EngagementService {
	return &EngagementService{repo: repo, validate: validator.New(), log: log}
}

// ToggleLike likes the document on behalf of email, or removes the existing
// like, so toggling twice is a no-op. Returns the new rating.
func (s *EngagementService) ToggleLike(ctx context.Context, coll domain.Collection, id, email string) (int, bool, error) {
	if !coll.Likeable() {
		return 0, false, fmt.Errorf("%w: %s documents cannot be liked", domain.ErrNotFound, coll)
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return 0, false, fmt.Errorf("%w: email %q", domain.ErrInvalidComment, email)
	}

	rating, liked, err := s.repo.ToggleLike(ctx, coll, id, email)
	if err != nil {
		return 0, false, err
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	s.log.Info().
		Str("collection", string(coll)).
		Str("id", id).
		Str("action", action).
		Int("rating", rating).
		Msg("like toggled")
	return rating, liked, nil
}

// AddComment appends a timestamped comment and returns its id. Username must
// be a syntactically valid email address.
func (s *EngagementService) AddComment(ctx context.Context, coll domain.Collection, id, username, message string) (string, error) {
	if !coll.Likeable() {
		return "", fmt.Errorf("%w: %s documents cannot be commented", domain.ErrNotFound, coll)
	}
	if err := s.validate.Var(username, "required,email"); err != nil {
		return "", fmt.Errorf("%w: username must be an email", domain.ErrInvalidComment)
	}
	if message == "" {
		return "", fmt.Errorf("%w: empty message", domain.ErrInvalidComment)
	}

	comment := domain.Comment{
		ID:       newCommentID(),
		Username: username,
		Message:  message,
		Date:     time.Now().UTC(),
	}
	if err := s.repo.AppendComment(ctx, coll, id, comment); err != nil {
		return "", err
	}

	s.log.Info().Str("collection", string(coll)).Str("id", id).Str("comment_id", comment.ID).Msg("comment added")
	return comment.ID, nil
}

// RemoveComment deletes a comment by id. Removing an id that does not exist
// on an existing document succeeds without change (store-level pull
// semantics); only a missing document is an error.
func (s *EngagementService) RemoveComment(ctx context.Context, coll domain.Collection, id, commentID string) error {
	if err := s.repo.RemoveComment(ctx, coll, id, commentID); err != nil {
		return err
	}
	s.log.Info().Str("collection", string(coll)).Str("id", id).Str("comment_id", commentID).Msg("comment removed")
	return nil
}

// newCommentID returns a 24-hex-character id, the same shape the store uses
// for document ids.
func newCommentID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		// fallback: nanosecond timestamp, zero padded
		return fmt.Sprintf("%024x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
