package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"cinefeed/models"
)

// MaxEntries caps the list; the oldest entries fall off the end.
const MaxEntries = 500

const fileName = "watchlist.json"

var ErrStorageDirRequired = errors.New("storage directory not provided")

// Service manages the persisted watch list. Persistence failures never
// surface to callers: reads degrade to an empty list and writes keep the
// in-memory state, so the UI stays usable when the disk is not.
type Service struct {
	mu      sync.RWMutex
	fs      afero.Fs
	path    string
	entries []models.WatchlistEntry
}

// NewService creates a watch list service storing its data as a single JSON
// file inside the provided directory on the given filesystem.
func NewService(fsys afero.Fs, storageDir string) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}
	if err := fsys.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create watchlist dir: %w", err)
	}

	svc := &Service{
		fs:   fsys,
		path: filepath.Join(storageDir, fileName),
	}
	svc.entries = svc.load()
	return svc, nil
}

// List returns the saved entries, newest first.
func (s *Service) List() []models.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Add prepends the entry unless an entry with the same (media type, id)
// already exists, then truncates to capacity. Returns the new sequence.
func (s *Service) Add(entry models.WatchlistEntry) []models.WatchlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entry.Key()
	for _, existing := range s.entries {
		if existing.Key() == key {
			return s.snapshotLocked()
		}
	}

	s.entries = append([]models.WatchlistEntry{entry}, s.entries...)
	if len(s.entries) > MaxEntries {
		s.entries = s.entries[:MaxEntries]
	}

	s.persistLocked()
	return s.snapshotLocked()
}

// Remove drops any entry matching the key and returns the new sequence.
func (s *Service) Remove(mediaType string, id int64) []models.WatchlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.WatchlistEntry{ID: id, MediaType: mediaType}.Key()
	kept := s.entries[:0]
	removed := false
	for _, entry := range s.entries {
		if entry.Key() == key {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	s.entries = kept

	if removed {
		s.persistLocked()
	}
	return s.snapshotLocked()
}

// Clear empties the list.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.persistLocked()
}

// Len reports the number of saved entries.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// load reads the persisted file. A missing file is the normal first-run
// state; an unreadable or corrupt file degrades to an empty list.
func (s *Service) load() []models.WatchlistEntry {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		log.Printf("[watchlist] read %s failed, starting empty: %v", s.path, err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var entries []models.WatchlistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("[watchlist] decode %s failed, starting empty: %v", s.path, err)
		return nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// persistLocked writes the current sequence via a temp file and rename.
// Failures are logged and swallowed; the in-memory state stays current.
func (s *Service) persistLocked() {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		log.Printf("[watchlist] encode failed: %v", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		log.Printf("[watchlist] write %s failed: %v", tmp, err)
		return
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		log.Printf("[watchlist] replace %s failed: %v", s.path, err)
		_ = s.fs.Remove(tmp)
	}
}

func (s *Service) snapshotLocked() []models.WatchlistEntry {
	out := make([]models.WatchlistEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
