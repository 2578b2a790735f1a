// File: internal/storage/fs_store_test.go
package storage

import (
	"context"
	"sort"
	"testing"
)

func newTestStore(t *testing.T) *FSStore {
	t.Helper()
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	return store
}

func TestUploadDownloadRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key := "42/" + ChatHistoryBlob
	if err := store.UploadText(ctx, "user: hello\nassistant: hi", key); err != nil {
		t.Fatalf("UploadText: %v", err)
	}

	got, err := store.DownloadText(ctx, key)
	if err != nil {
		t.Fatalf("DownloadText: %v", err)
	}
	if got != "user: hello\nassistant: hi" {
		t.Errorf("roundtrip content = %q", got)
	}
}

func TestDownloadMissingBlobIsEmptyNotError(t *testing.T) {
	store := newTestStore(t)

	got, err := store.DownloadText(context.Background(), "99/"+ChatHistoryBlob)
	if err != nil {
		t.Fatalf("missing blob must not be an error, got %v", err)
	}
	if got != "" {
		t.Errorf("missing blob content = %q, want empty", got)
	}
}

func TestUploadOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UploadText(ctx, "v1", "1/soap"); err != nil {
		t.Fatalf("UploadText: %v", err)
	}
	if err := store.UploadText(ctx, "v2", "1/soap"); err != nil {
		t.Fatalf("UploadText overwrite: %v", err)
	}

	got, _ := store.DownloadText(ctx, "1/soap")
	if got != "v2" {
		t.Errorf("content after overwrite = %q", got)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UploadText(ctx, "x", "5/dvx"); err != nil {
		t.Fatalf("UploadText: %v", err)
	}
	if err := store.Delete(ctx, "5/dvx"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "5/dvx"); err != nil {
		t.Fatalf("second Delete must be a no-op, got %v", err)
	}

	got, _ := store.DownloadText(ctx, "5/dvx")
	if got != "" {
		t.Errorf("deleted blob still readable: %q", got)
	}
}

func TestListReturnsAllKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"1/chat_history", "2/chat_history", "3/soap"} {
		if err := store.UploadText(ctx, "x", key); err != nil {
			t.Fatalf("UploadText(%s): %v", key, err)
		}
	}

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(keys)
	want := []string{"1/chat_history", "2/chat_history", "3/soap"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"../outside", "/etc/passwd", ""} {
		if err := store.UploadText(ctx, "x", key); err == nil {
			t.Errorf("UploadText(%q) must be rejected", key)
		}
		if _, err := store.DownloadText(ctx, key); err == nil {
			t.Errorf("DownloadText(%q) must be rejected", key)
		}
	}
}
