package template

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"sort"
)

// Entry is one template file: a workspace-relative path (slash-separated)
// and its content. Entries are immutable; callers must not modify Content.
type Entry struct {
	Path    string
	Content []byte
}

// Store provides read-only access to the workspace template payload.
// Implementations must return entries in a deterministic order and must
// not perform side effects on access.
type Store interface {
	// Get returns the entry at path. The template set is fixed at build
	// time, so an unknown path is a programmer error and panics.
	Get(path string) Entry

	// List returns every entry, sorted by path.
	List() []Entry

	// Sum returns the hex-encoded SHA-256 digest of the entry at path.
	// Unknown paths panic, like Get.
	Sum(path string) string
}

type memStore struct {
	entries map[string]Entry
	paths   []string
}

// NewStore builds a Store from a set of entries. Used by tests to supply
// fixture templates; production code uses Embedded.
func NewStore(entries []Entry) Store {
	s := &memStore{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		s.entries[e.Path] = e
		s.paths = append(s.paths, e.Path)
	}
	sort.Strings(s.paths)
	return s
}

// newStoreFromFS loads every file under root in fsys as an entry keyed by
// its path relative to root.
func newStoreFromFS(fsys fs.FS, root string) (Store, error) {
	var entries []Entry
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Path:    path[len(root)+1:],
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load template payload: %w", err)
	}
	return NewStore(entries), nil
}

func (s *memStore) Get(path string) Entry {
	e, ok := s.entries[path]
	if !ok {
		panic(fmt.Sprintf("template: unknown entry %q", path))
	}
	return e
}

func (s *memStore) List() []Entry {
	entries := make([]Entry, 0, len(s.paths))
	for _, p := range s.paths {
		entries = append(entries, s.entries[p])
	}
	return entries
}

func (s *memStore) Sum(path string) string {
	sum := sha256.Sum256(s.Get(path).Content)
	return hex.EncodeToString(sum[:])
}
