package storage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestImageStore_SaveDecodesDataURL(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	filename, err := store.Save("projects-abc", dataURL)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filename != "projects-abc.png" {
		t.Errorf("unexpected filename %q", filename)
	}

	raw, err := os.ReadFile(filepath.Join(store.Dir(), filename))
	if err != nil {
		t.Fatalf("read stored image: %v", err)
	}
	if !bytes.Equal(raw, pngBytes) {
		t.Errorf("stored bytes differ from the payload")
	}
}

func TestImageStore_SaveRejectsNonImagePayload(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	cases := []struct {
		name    string
		payload string
	}{
		{"no prefix", base64.StdEncoding.EncodeToString(pngBytes)},
		{"wrong media type", "data:text/plain;base64,aGVsbG8="},
		{"broken base64", "data:image/png;base64,%%%"},
	}
	for _, tc := range cases {
		if _, err := store.Save("x", tc.payload); !errors.Is(err, domain.ErrInvalidImage) {
			t.Errorf("%s: expected invalid image, got %v", tc.name, err)
		}
	}
}

func TestImageStore_RemoveIsIdempotent(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	filename, err := store.Save("news-1", dataURL)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Remove(filename); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), filename)); !os.IsNotExist(err) {
		t.Errorf("image still on disk after remove")
	}
	if err := store.Remove(filename); err != nil {
		t.Errorf("second remove must be a no-op, got %v", err)
	}
}
