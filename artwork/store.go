package artwork

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/framecast/framecast/filesystem"
	"github.com/framecast/framecast/log"
	"github.com/framecast/framecast/where"
)

// Store keeps downloaded frame artwork on disk so the OS can display it from a local path.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewStore returns a store rooted at dir. A non-positive ttl keeps files forever.
func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

// DefaultStore returns the store under the user cache directory.
func DefaultStore(ttl time.Duration) *Store {
	return NewStore(where.Frames(), ttl)
}

// Dir returns the store root.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns where ref is (or would be) stored.
func (s *Store) Path(ref string) string {
	return filepath.Join(s.dir, filepath.Base(ref))
}

func (s *Store) expired(info os.FileInfo) bool {
	return s.ttl > 0 && s.now().Sub(info.ModTime()) > s.ttl
}

// Has reports whether a fresh copy of ref is stored.
func (s *Store) Has(ref string) bool {
	info, err := filesystem.API().Stat(s.Path(ref))
	if err != nil || info.IsDir() {
		return false
	}
	return !s.expired(info)
}

// Write stores the contents of r as ref, swapping the file in atomically.
func (s *Store) Write(ref string, r io.Reader) error {
	fs := filesystem.API()
	if err := fs.MkdirAll(s.dir, os.ModePerm); err != nil {
		return err
	}

	path := s.Path(ref)
	tmp := path + ".tmp"

	f, err := fs.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmp)
		return fmt.Errorf("write %s: %w", ref, err)
	}

	if err := f.Close(); err != nil {
		_ = fs.Remove(tmp)
		return err
	}

	return fs.Rename(tmp, path)
}

// CollectGarbage removes stored files older than the TTL and returns how many were removed.
func (s *Store) CollectGarbage() int {
	if s.ttl <= 0 {
		return 0
	}

	fs := filesystem.API()
	var removed int
	_ = fs.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if s.expired(info) {
			if fs.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})

	if removed > 0 {
		log.Debugf("removed %d expired frames from %s", removed, s.dir)
	}
	return removed
}
