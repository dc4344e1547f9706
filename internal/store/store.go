// Package store manages a directory of sequentially numbered JPEG images
// (IMG_0000.JPG .. IMG_9999.JPG). The sequence space wraps at 9999.
package store

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gobwas/glob"

	"camshot/internal/errs"
	"camshot/internal/log"
)

const (
	// Prefix and Suffix frame the four-digit sequence number
	Prefix = "IMG_"
	Suffix = ".JPG"
	// MaxIndex is the last sequence number before wrapping to 0
	MaxIndex = 9999
)

// filePattern matches filenames that belong to the store
var filePattern = glob.MustCompile(Prefix + "[0-9][0-9][0-9][0-9]" + Suffix)

// Store is one storage destination. The next-save index is cached after the
// first scan and invalidated when the directory changes (storage switch or
// an external modification reported by the watcher).
type Store struct {
	dir string

	mu           sync.Mutex
	saveIdx      int
	saveIdxValid bool
	watcher      *Watcher
}

// New creates a store for the given directory. The directory is not
// created until EnsureDir is called.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the storage directory
func (s *Store) Dir() string {
	return s.dir
}

// ImagePath returns the full path for a sequence number
func (s *Store) ImagePath(n int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s%04d%s", Prefix, n, Suffix))
}

// Exists reports whether the image with the given sequence number is on disk
func (s *Store) Exists(n int) bool {
	info, err := os.Stat(s.ImagePath(n))
	return err == nil && !info.IsDir()
}

// EnsureDir creates the storage directory if absent, with 0755 permissions
// owned by the invoking user (not root, when running under sudo).
func (s *Store) EnsureDir() error {
	info, err := os.Stat(s.dir)
	if err == nil {
		if !info.IsDir() {
			return errs.NewStorageError("storage path is not a directory", s.dir, errs.StorageCreateFailed, nil)
		}
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errs.NewStorageError("creating storage directory", s.dir, errs.StorageCreateFailed, err)
	}
	uid, gid := ownerIDs()
	if err := os.Chown(s.dir, uid, gid); err != nil {
		// Non-fatal; the directory still works, it just belongs to root
		log.Debugf("chown %s: %v", s.dir, err)
	}
	log.WithFields(log.F("directory", s.dir)).Info("created storage directory")
	return nil
}

// FixOwnership sets a captured file to 0644 owned by the invoking user
func FixOwnership(path string) {
	uid, gid := ownerIDs()
	if err := os.Chown(path, uid, gid); err != nil {
		log.Debugf("chown %s: %v", path, err)
	}
	if err := os.Chmod(path, 0o644); err != nil {
		log.Debugf("chmod %s: %v", path, err)
	}
}

// ownerIDs resolves the user the files should belong to. Under sudo that is
// the invoking user, otherwise the current one.
func ownerIDs() (int, int) {
	uid := os.Getuid()
	gid := os.Getgid()
	if v, err := strconv.Atoi(os.Getenv("SUDO_UID")); err == nil {
		uid = v
	}
	if v, err := strconv.Atoi(os.Getenv("SUDO_GID")); err == nil {
		gid = v
	}
	return uid, gid
}

// Range scans the directory and returns the lowest and highest sequence
// numbers present. ok is false when the directory holds no images.
func (s *Store) Range() (min, max int, ok bool) {
	min, max = MaxIndex, 0
	found := false
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0, false
	}
	for _, entry := range entries {
		name := entry.Name()
		if !filePattern.Match(name) {
			continue
		}
		n, err := strconv.Atoi(name[len(Prefix) : len(Prefix)+4])
		if err != nil {
			continue
		}
		found = true
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	if !found {
		return 0, 0, false
	}
	return min, max, true
}

// Neighbor returns the nearest existing sequence number when stepping from
// the given index in the given direction (+1 or -1), wrapping through the
// 0..9999 space. The starting index itself is skipped. The scan is bounded
// to one full circle; ok is false when no image exists at all.
func (s *Store) Neighbor(from, direction int) (int, bool) {
	if direction != 1 && direction != -1 {
		return 0, false
	}
	n := from
	for i := 0; i <= MaxIndex; i++ {
		n += direction
		if n > MaxIndex {
			n = 0
		} else if n < 0 {
			n = MaxIndex
		}
		if s.Exists(n) {
			return n, true
		}
	}
	return 0, false
}

// NextFreeSlot returns the sequence number the next capture should use:
// one past the highest existing image, then probing forward (wrapping)
// until a free filename is found. The result is cached; the cache is
// dropped by Invalidate.
func (s *Store) NextFreeSlot() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saveIdxValid {
		if _, max, ok := s.Range(); ok {
			s.saveIdx = max + 1
			if s.saveIdx > MaxIndex {
				s.saveIdx = 0
			}
		} else {
			s.saveIdx = 1
		}
		s.saveIdxValid = true
	}
	// Probe forward for a free filename, one full circle at most
	for i := 0; i <= MaxIndex; i++ {
		if !s.Exists(s.saveIdx) {
			return s.saveIdx, nil
		}
		s.saveIdx++
		if s.saveIdx > MaxIndex {
			s.saveIdx = 0
		}
	}
	return 0, errs.NewStorageError("storage full", s.dir, errs.StorageCreateFailed, nil)
}

// Advance moves the cached save index past a just-captured image
func (s *Store) Advance(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saveIdxValid {
		return
	}
	s.saveIdx = n + 1
	if s.saveIdx > MaxIndex {
		s.saveIdx = 0
	}
}

// Invalidate drops the cached save index so the next capture rescans
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveIdxValid = false
}

// Delete removes the image with the given sequence number
func (s *Store) Delete(n int) error {
	path := s.ImagePath(n)
	if err := os.Remove(path); err != nil {
		return errs.NewStorageError("deleting image", path, errs.StorageDeleteFailed, err)
	}
	log.WithFields(log.F("path", path)).Info("deleted image")
	return nil
}

// Load decodes the image with the given sequence number
func (s *Store) Load(n int) (image.Image, error) {
	path := s.ImagePath(n)
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.NewStorageError("opening image", path, errs.StorageNotFound, err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		return nil, errs.NewStorageError("decoding image", path, errs.StorageScanFailed, err)
	}
	return img, nil
}

// Watch starts the directory watcher so external changes invalidate the
// cached save index. Safe to call on a store that is already watching.
func (s *Store) Watch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return nil
	}
	w, err := NewWatcher(s)
	if err != nil {
		return err
	}
	s.watcher = w
	return w.Start()
}

// Close stops the watcher, if any
func (s *Store) Close() error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if w != nil {
		return w.Stop()
	}
	return nil
}
