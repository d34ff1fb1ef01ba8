// Package store keeps every collection of the service as one pretty-printed
// JSON document on disk.  Documents are always read and written whole.
//
// Access to a document is serialized per path inside the process: callers
// that read, modify and write a document hold its lock for the whole
// sequence, so two purchases against the same concert cannot lose each
// other's inventory update.  Nothing coordinates separate processes.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/iliyamo/sonic-seats/internal/errs"
	"github.com/iliyamo/sonic-seats/internal/model"
)

// Indent is the indentation used for every persisted document.
const Indent = "    "

// Files names the document of each collection, relative to the data dir.
type Files struct {
	Concerts  string
	FAQ       string
	Comments  string
	Cart      string
	Purchases string
}

// DefaultFiles returns the document names the service ships with.
func DefaultFiles() Files {
	return Files{
		Concerts:  "concerts-LA.json",
		FAQ:       "faq.json",
		Comments:  "comments.json",
		Cart:      "cart.json",
		Purchases: "purchases.json",
	}
}

// Store reads and writes the documents under one data directory.
type Store struct {
	dir     string
	files   Files
	maxSeat int

	mu    sync.Mutex
	locks map[string]*sync.RWMutex

	// rename is os.Rename outside of tests.
	rename func(oldpath, newpath string) error
}

// New returns a Store rooted at dir.  maxSeat bounds seat numbers when
// validating documents; values below 1 fall back to the default bound.
func New(dir string, files Files, maxSeat int) *Store {
	if maxSeat < 1 {
		maxSeat = model.DefaultSeatsPerSection
	}
	return &Store{
		dir:     dir,
		files:   files,
		maxSeat: maxSeat,
		locks:   make(map[string]*sync.RWMutex),
		rename:  os.Rename,
	}
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// MaxSeat returns the seat-number bound used for validation.
func (s *Store) MaxSeat() int { return s.maxSeat }

// Path resolves a document name against the data directory.
func (s *Store) Path(name string) string {
	return filepath.Clean(filepath.Join(s.dir, name))
}

func (s *Store) lockFor(path string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[path] = l
	}
	return l
}

// sortedPaths dedups and orders paths so that every caller takes locks in
// the same order.
func sortedPaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Lock takes the write lock of every given document and returns the
// function that releases them.
func (s *Store) Lock(paths ...string) (unlock func()) {
	ordered := sortedPaths(paths)
	held := make([]*sync.RWMutex, 0, len(ordered))
	for _, p := range ordered {
		l := s.lockFor(p)
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// RLock takes the read lock of every given document.
func (s *Store) RLock(paths ...string) (unlock func()) {
	ordered := sortedPaths(paths)
	held := make([]*sync.RWMutex, 0, len(ordered))
	for _, p := range ordered {
		l := s.lockFor(p)
		l.RLock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].RUnlock()
		}
	}
}

// Load parses the document at path into v.  A missing file wraps
// errs.ErrNotExist; any read or parse failure is a StorageError.
func (s *Store) Load(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Storage("read", path, fmt.Errorf("%w: %v", errs.ErrNotExist, err))
		}
		return errs.Storage("read", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errs.Storage("parse", path, err)
	}
	return nil
}

// LoadOptional behaves like Load but treats a missing file as an empty
// document: v is left untouched and found is false.
func (s *Store) LoadOptional(path string, v any) (found bool, err error) {
	if err := s.Load(path, v); err != nil {
		if errors.Is(err, errs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Save writes v to path through a temp file and a rename.
func (s *Store) Save(path string, v any) error {
	return s.Commit(Doc{Path: path, Value: v})
}

// Encode renders v the way every document is persisted.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
