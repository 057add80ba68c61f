package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

const (
	fieldPassword = "password"
	fieldImageSrc = "src"
	fieldImage    = "img"
)

// ContentService is the generic CRUD layer over the content collections.
// It owns two cross-cutting concerns the repositories stay ignorant of:
// bcrypt hashing of user passwords and moving inline base64 images out of
// documents into the image store.
type ContentService struct {
	repo   ports.ContentRepository
	images ports.ImageStore
	log    zerolog.Logger
}

func NewContentService(repo ports.ContentRepository, images ports.ImageStore, log zerolog.Logger) *ContentService {
	return &ContentService{repo: repo, images: images, log: log}
}

func (s *ContentService) List(ctx context.Context, coll domain.Collection) ([]domain.Document, error) {
	docs, err := s.repo.List(ctx, coll)
	if err != nil {
		return nil, err
	}
	if coll == domain.CollectionUsers {
		for _, d := range docs {
			delete(d, fieldPassword)
		}
	}
	return docs, nil
}

func (s *ContentService) Get(ctx context.Context, coll domain.Collection, id string) (domain.Document, error) {
	doc, err := s.repo.Get(ctx, coll, id)
	if err != nil {
		return nil, err
	}
	if coll == domain.CollectionUsers {
		delete(doc, fieldPassword)
	}
	return doc, nil
}

// Create inserts doc. An inline "src" data-url image is stored to the image
// store after insert (the filename embeds the generated id) and replaced by
// the stored filename in the "img" field.
func (s *ContentService) Create(ctx context.Context, coll domain.Collection, doc domain.Document) (string, error) {
	if err := s.hashPassword(coll, doc); err != nil {
		return "", err
	}

	src, hasImage := doc[fieldImageSrc].(string)
	delete(doc, fieldImageSrc)

	id, err := s.repo.Insert(ctx, coll, doc)
	if err != nil {
		return "", err
	}

	if hasImage && src != "" {
		filename, err := s.images.Save(imageName(coll, id), src)
		if err != nil {
			return "", err
		}
		if err := s.repo.Update(ctx, coll, id, domain.Document{fieldImage: filename}); err != nil {
			return "", err
		}
		s.log.Debug().Str("collection", string(coll)).Str("img", filename).Msg("image stored")
	}

	s.log.Info().Str("collection", string(coll)).Str("id", id).Msg("document created")
	return id, nil
}

// Update applies a partial update. A new inline image replaces the stored one
// under the same name.
func (s *ContentService) Update(ctx context.Context, coll domain.Collection, id string, doc domain.Document) error {
	if err := s.hashPassword(coll, doc); err != nil {
		return err
	}

	if src, ok := doc[fieldImageSrc].(string); ok && src != "" {
		delete(doc, fieldImageSrc)
		filename, err := s.images.Save(imageName(coll, id), src)
		if err != nil {
			return err
		}
		doc[fieldImage] = filename
	}

	if err := s.repo.Update(ctx, coll, id, doc); err != nil {
		return err
	}
	s.log.Info().Str("collection", string(coll)).Str("id", id).Msg("document updated")
	return nil
}

// Delete removes the document along with its stored image, if any.
func (s *ContentService) Delete(ctx context.Context, coll domain.Collection, id string) error {
	doc, err := s.repo.Get(ctx, coll, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, coll, id); err != nil {
		return err
	}

	if filename, ok := doc[fieldImage].(string); ok && filename != "" {
		if err := s.images.Remove(filename); err != nil {
			s.log.Warn().Err(err).Str("img", filename).Msg("failed to remove stored image")
		}
	}

	s.log.Info().Str("collection", string(coll)).Str("id", id).Msg("document deleted")
	return nil
}

func (s *ContentService) hashPassword(coll domain.Collection, doc domain.Document) error {
	if coll != domain.CollectionUsers {
		return nil
	}
	password, ok := doc[fieldPassword].(string)
	if !ok || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	doc[fieldPassword] = string(hash)
	return nil
}

func imageName(coll domain.Collection, id string) string {
	return fmt.Sprintf("%s-%s", coll, id)
}
