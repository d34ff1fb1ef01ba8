package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/iliyamo/sonic-seats/internal/errs"
)

// Doc pairs a document path with the value to persist there.
type Doc struct {
	Path  string
	Value any
}

type staged struct {
	path    string
	tmp     string
	prev    []byte
	existed bool
}

// Commit persists several documents as one unit, in the order given.
//
// Every document is encoded and written to a temp file next to its target
// before any target is touched, so an encode or staging failure leaves all
// documents as they were and is reported as a StorageError.  Targets are
// then swapped in by rename.  When a rename fails after an earlier one
// went through, the earlier documents are put back to their previous
// contents and a ConsistencyError describes what happened.
func (s *Store) Commit(docs ...Doc) error {
	stages := make([]staged, 0, len(docs))
	cleanup := func() {
		for _, st := range stages {
			if st.tmp != "" {
				_ = os.Remove(st.tmp)
			}
		}
	}

	for _, d := range docs {
		path := filepath.Clean(d.Path)
		b, err := Encode(d.Value)
		if err != nil {
			cleanup()
			return errs.Storage("encode", path, err)
		}
		st := staged{path: path}
		prev, err := os.ReadFile(path)
		switch {
		case err == nil:
			st.prev, st.existed = prev, true
		case errors.Is(err, fs.ErrNotExist):
		default:
			cleanup()
			return errs.Storage("read", path, err)
		}
		tmp, err := writeTemp(path, b)
		if err != nil {
			cleanup()
			return errs.Storage("write", path, err)
		}
		st.tmp = tmp
		stages = append(stages, st)
	}

	for i := range stages {
		if err := s.rename(stages[i].tmp, stages[i].path); err != nil {
			cleanup()
			if i == 0 {
				return errs.Storage("write", stages[i].path, err)
			}
			return s.rollback(stages[:i], stages[i].path, err)
		}
		stages[i].tmp = ""
	}
	return nil
}

// rollback restores documents that were already swapped in.
func (s *Store) rollback(done []staged, failed string, cause error) error {
	ce := &errs.ConsistencyError{Failed: failed, Err: cause, Restored: true}
	for _, st := range done {
		ce.Written = append(ce.Written, st.path)
		var err error
		if st.existed {
			var tmp string
			if tmp, err = writeTemp(st.path, st.prev); err == nil {
				if err = s.rename(tmp, st.path); err != nil {
					_ = os.Remove(tmp)
				}
			}
		} else {
			err = os.Remove(st.path)
		}
		if err != nil {
			ce.Restored = false
		}
	}
	return ce
}

// writeTemp writes b to a new file in the directory of path and returns
// the temp file name.
func writeTemp(path string, b []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(name)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
