package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func newTestArea(t *testing.T) ContentArea {
	t.Helper()

	area, err := NewFilesystemArea(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemArea error: %v", err)
	}
	t.Cleanup(func() { _ = area.Close() })
	return area
}

func TestFilesystemArea_PutGetRoundTrip(t *testing.T) {
	area := newTestArea(t)
	ctx := context.Background()

	payload := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	if err := area.Put(ctx, "1700000000000-42.png", payload); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err := area.Get(ctx, "1700000000000-42.png")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Get returned %v, want %v", got, payload)
	}
}

func TestFilesystemArea_GetMissing(t *testing.T) {
	area := newTestArea(t)

	_, err := area.Get(context.Background(), "never-ingested.jpg")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilesystemArea_ExistsAndDelete(t *testing.T) {
	area := newTestArea(t)
	ctx := context.Background()

	if err := area.Put(ctx, "a.jpg", []byte("data")); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	exists, err := area.Exists(ctx, "a.jpg")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !exists {
		t.Fatal("expected asset to exist")
	}

	if err := area.Delete(ctx, "a.jpg"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	exists, err = area.Exists(ctx, "a.jpg")
	if err != nil {
		t.Fatalf("Exists after delete error: %v", err)
	}
	if exists {
		t.Fatal("expected asset to be gone after delete")
	}

	if err := area.Delete(ctx, "a.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting missing asset, got %v", err)
	}
}

func TestFilesystemArea_List(t *testing.T) {
	area := newTestArea(t)
	ctx := context.Background()

	references, err := area.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(references) != 0 {
		t.Fatalf("expected empty area, got %v", references)
	}

	if err := area.Put(ctx, "a.jpg", []byte("a")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := area.Put(ctx, "b.png", []byte("b")); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	references, err = area.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(references) != 2 {
		t.Fatalf("expected 2 references, got %v", references)
	}
}

func TestFilesystemArea_RejectsEscapingReferences(t *testing.T) {
	area := newTestArea(t)
	ctx := context.Background()

	for _, reference := range []string{"", "../outside.jpg", "a/b.jpg", `a\b.jpg`, ".."} {
		if err := area.Put(ctx, reference, []byte("x")); !errors.Is(err, ErrBadReference) {
			t.Errorf("Put(%q): expected ErrBadReference, got %v", reference, err)
		}
		if _, err := area.Get(ctx, reference); !errors.Is(err, ErrBadReference) {
			t.Errorf("Get(%q): expected ErrBadReference, got %v", reference, err)
		}
	}
}
