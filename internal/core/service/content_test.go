package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type fakeContentRepo struct {
	docs   map[string]domain.Document
	nextID int
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{docs: make(map[string]domain.Document)}
}

func (r *fakeContentRepo) List(_ context.Context, _ domain.Collection) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeContentRepo) Get(_ context.Context, _ domain.Collection, id string) (domain.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: this id %s doesn't exist", domain.ErrNotFound, id)
	}
	return d, nil
}

func (r *fakeContentRepo) Insert(_ context.Context, _ domain.Collection, doc domain.Document) (string, error) {
	r.nextID++
	id := fmt.Sprintf("id-%d", r.nextID)
	r.docs[id] = doc
	return id, nil
}

func (r *fakeContentRepo) Update(_ context.Context, _ domain.Collection, id string, doc domain.Document) error {
	d, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("%w: this id %s doesn't exist", domain.ErrNotFound, id)
	}
	for k, v := range doc {
		d[k] = v
	}
	return nil
}

func (r *fakeContentRepo) Delete(_ context.Context, _ domain.Collection, id string) error {
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("%w: this id %s doesn't exist", domain.ErrNotFound, id)
	}
	delete(r.docs, id)
	return nil
}

type fakeImageStore struct {
	saved   map[string]string // name -> data url
	removed []string
	saveErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{saved: make(map[string]string)}
}

func (s *fakeImageStore) Save(name, dataURL string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saved[name] = dataURL
	return name + ".png", nil
}

func (s *fakeImageStore) Remove(filename string) error {
	s.removed = append(s.removed, filename)
	return nil
}

func newContent(repo *fakeContentRepo, images *fakeImageStore) *ContentService {
	return NewContentService(repo, images, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

const pngDataURL = "data:image/png;base64,aGVsbG8="

func TestContent_CreateStoresInlineImage(t *testing.T) {
	repo := newFakeContentRepo()
	images := newFakeImageStore()
	svc := newContent(repo, images)

	id, err := svc.Create(context.Background(), domain.CollectionProjects, domain.Document{
		"title": "river cleanup",
		"src":   pngDataURL,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	doc := repo.docs[id]
	if _, ok := doc["src"]; ok {
		t.Errorf("inline src must not be persisted")
	}
	img, _ := doc["img"].(string)
	if !strings.HasPrefix(img, "projects-") || !strings.HasSuffix(img, ".png") {
		t.Errorf("expected stored filename on the document, got %q", img)
	}
	if len(images.saved) != 1 {
		t.Errorf("expected one saved image, got %d", len(images.saved))
	}
}

func TestContent_CreateWithoutImage(t *testing.T) {
	repo := newFakeContentRepo()
	images := newFakeImageStore()
	svc := newContent(repo, images)

	id, err := svc.Create(context.Background(), domain.CollectionNews, domain.Document{"title": "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := repo.docs[id]["img"]; ok {
		t.Errorf("no image expected")
	}
	if len(images.saved) != 0 {
		t.Errorf("image store must not be touched")
	}
}

func TestContent_CreateUserHashesPassword(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newContent(repo, newFakeImageStore())

	id, err := svc.Create(context.Background(), domain.CollectionUsers, domain.Document{
		"name":     "alice",
		"email":    "alice@x.com",
		"password": "hunter22",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	hash, _ := repo.docs[id]["password"].(string)
	if hash == "hunter22" {
		t.Fatal("password stored in plain text")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter22")) != nil {
		t.Errorf("stored hash does not verify against the original password")
	}
}

func TestContent_ListStripsUserPasswords(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newContent(repo, newFakeImageStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.CollectionUsers, domain.Document{"name": "alice", "password": "pw"}); err != nil {
		t.Fatal(err)
	}

	docs, err := svc.List(ctx, domain.CollectionUsers)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range docs {
		if _, ok := d["password"]; ok {
			t.Errorf("password leaked from List: %v", d)
		}
	}

	doc, err := svc.Get(ctx, domain.CollectionUsers, "id-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["password"]; ok {
		t.Errorf("password leaked from Get")
	}
}

func TestContent_UpdateReplacesImage(t *testing.T) {
	repo := newFakeContentRepo()
	images := newFakeImageStore()
	svc := newContent(repo, images)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CollectionNews, domain.Document{"title": "old"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Update(ctx, domain.CollectionNews, id, domain.Document{"src": pngDataURL}); err != nil {
		t.Fatalf("update: %v", err)
	}
	img, _ := repo.docs[id]["img"].(string)
	if img != fmt.Sprintf("news-%s.png", id) {
		t.Errorf("unexpected stored filename %q", img)
	}
}

func TestContent_DeleteRemovesStoredImage(t *testing.T) {
	repo := newFakeContentRepo()
	images := newFakeImageStore()
	svc := newContent(repo, images)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CollectionProjects, domain.Document{"title": "x", "src": pngDataURL})
	if err != nil {
		t.Fatal(err)
	}
	filename := repo.docs[id]["img"].(string)

	if err := svc.Delete(ctx, domain.CollectionProjects, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.docs[id]; ok {
		t.Error("document must be gone")
	}
	if len(images.removed) != 1 || images.removed[0] != filename {
		t.Errorf("stored image must be removed, got %v", images.removed)
	}
}

func TestContent_DeleteMissing(t *testing.T) {
	svc := newContent(newFakeContentRepo(), newFakeImageStore())
	err := svc.Delete(context.Background(), domain.CollectionProjects, "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
