package watchlist

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"cinefeed/models"
)

func newTestService(t *testing.T) (*Service, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	svc, err := NewService(fsys, "data")
	if err != nil {
		t.Fatalf("failed to create watchlist service: %v", err)
	}
	return svc, fsys
}

func entry(id int64, title string) models.WatchlistEntry {
	return models.WatchlistEntry{ID: id, MediaType: models.MediaTypeMovie, Title: title}
}

func TestAddIsIdempotentPerKey(t *testing.T) {
	svc, _ := newTestService(t)

	svc.Add(entry(1, "First"))
	items := svc.Add(entry(1, "First again"))

	if len(items) != 1 {
		t.Fatalf("expected 1 entry after duplicate add, got %d", len(items))
	}
	if items[0].Title != "First" {
		t.Fatalf("expected original entry kept, got %q", items[0].Title)
	}
}

func TestAddPrependsNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)

	svc.Add(entry(1, "Old"))
	items := svc.Add(entry(2, "New"))

	if len(items) != 2 || items[0].ID != 2 || items[1].ID != 1 {
		t.Fatalf("expected newest first, got %+v", items)
	}
}

func TestAddSameIDDifferentMediaType(t *testing.T) {
	svc, _ := newTestService(t)

	svc.Add(models.WatchlistEntry{ID: 7, MediaType: models.MediaTypeMovie, Title: "Movie"})
	items := svc.Add(models.WatchlistEntry{ID: 7, MediaType: models.MediaTypeTV, Title: "Show"})

	if len(items) != 2 {
		t.Fatalf("expected distinct keys per media type, got %d entries", len(items))
	}
}

func TestRemove(t *testing.T) {
	svc, _ := newTestService(t)

	svc.Add(entry(1, "A"))
	svc.Add(entry(2, "B"))

	items := svc.Remove(models.MediaTypeMovie, 1)
	if len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("expected only B to remain, got %+v", items)
	}

	// Removing a missing key is a no-op.
	items = svc.Remove(models.MediaTypeMovie, 99)
	if len(items) != 1 {
		t.Fatalf("expected no change removing missing key, got %+v", items)
	}
}

func TestCapacityDropsOldest(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 1; i <= MaxEntries+1; i++ {
		svc.Add(entry(int64(i), fmt.Sprintf("Title %d", i)))
	}

	if svc.Len() != MaxEntries {
		t.Fatalf("expected length capped at %d, got %d", MaxEntries, svc.Len())
	}

	items := svc.List()
	if items[0].ID != int64(MaxEntries+1) {
		t.Fatalf("expected newest entry on top, got id %d", items[0].ID)
	}
	for _, e := range items {
		if e.ID == 1 {
			t.Fatalf("expected oldest entry to be dropped")
		}
	}
}

func TestClear(t *testing.T) {
	svc, fsys := newTestService(t)

	svc.Add(entry(1, "A"))
	svc.Clear()

	if svc.Len() != 0 {
		t.Fatalf("expected empty list after clear, got %d", svc.Len())
	}

	// Clear persists; a fresh service over the same fs sees nothing.
	reloaded, err := NewService(fsys, "data")
	if err != nil {
		t.Fatalf("failed to reload service: %v", err)
	}
	if reloaded.Len() != 0 {
		t.Fatalf("expected persisted empty list, got %d", reloaded.Len())
	}
}

func TestListSurvivesRestart(t *testing.T) {
	fsys := afero.NewMemMapFs()
	svc, err := NewService(fsys, "data")
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	svc.Add(entry(1, "Persisted"))

	reloaded, err := NewService(fsys, "data")
	if err != nil {
		t.Fatalf("failed to reload service: %v", err)
	}
	items := reloaded.List()
	if len(items) != 1 || items[0].Title != "Persisted" {
		t.Fatalf("expected persisted entry, got %+v", items)
	}
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path := filepath.Join("data", "watchlist.json")
	if err := afero.WriteFile(fsys, path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to seed corrupt file: %v", err)
	}

	svc, err := NewService(fsys, "data")
	if err != nil {
		t.Fatalf("expected corrupt file to be tolerated: %v", err)
	}
	if svc.Len() != 0 {
		t.Fatalf("expected empty list from corrupt file, got %d", svc.Len())
	}

	// The store stays writable afterwards.
	items := svc.Add(entry(1, "Fresh"))
	if len(items) != 1 {
		t.Fatalf("expected add to work after corrupt load, got %+v", items)
	}
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	fsys := afero.NewMemMapFs()
	svc, err := NewService(fsys, "data")
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	// Swap in a read-only view so persistence fails silently.
	svc.fs = afero.NewReadOnlyFs(fsys)

	items := svc.Add(entry(1, "In Memory"))
	if len(items) != 1 {
		t.Fatalf("expected in-memory add despite write failure, got %+v", items)
	}
}

func TestNewServiceRequiresDir(t *testing.T) {
	if _, err := NewService(afero.NewMemMapFs(), "  "); err != ErrStorageDirRequired {
		t.Fatalf("expected ErrStorageDirRequired, got %v", err)
	}
}
