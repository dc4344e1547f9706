package store

import (
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeImage drops a tiny but valid JPEG at the given sequence number
func writeImage(t *testing.T, s *Store, n int) {
	t.Helper()
	f, err := os.Create(s.ImagePath(n))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil))
}

func TestImagePath(t *testing.T) {
	s := New("/photos")
	assert.Equal(t, filepath.Join("/photos", "IMG_0042.JPG"), s.ImagePath(42))
	assert.Equal(t, filepath.Join("/photos", "IMG_9999.JPG"), s.ImagePath(9999))
}

func TestRange(t *testing.T) {
	s := New(t.TempDir())

	_, _, ok := s.Range()
	assert.False(t, ok)

	writeImage(t, s, 3)
	writeImage(t, s, 17)
	writeImage(t, s, 8)

	// A non-matching file must not confuse the scan
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "IMG_12.JPG"), []byte("x"), 0o644))

	min, max, ok := s.Range()
	require.True(t, ok)
	assert.Equal(t, 3, min)
	assert.Equal(t, 17, max)
}

func TestNeighborForward(t *testing.T) {
	s := New(t.TempDir())
	writeImage(t, s, 5)
	writeImage(t, s, 9)

	n, ok := s.Neighbor(5, 1)
	require.True(t, ok)
	assert.Equal(t, 9, n)

	// Wraps past 9999 back to the lowest index
	n, ok = s.Neighbor(9, 1)
	require.True(t, ok)
	assert.Equal(t, 5, n)
}

func TestNeighborBackward(t *testing.T) {
	s := New(t.TempDir())
	writeImage(t, s, 5)
	writeImage(t, s, 9)

	n, ok := s.Neighbor(9, -1)
	require.True(t, ok)
	assert.Equal(t, 5, n)

	n, ok = s.Neighbor(5, -1)
	require.True(t, ok)
	assert.Equal(t, 9, n)
}

func TestNeighborEmptyDirectoryTerminates(t *testing.T) {
	s := New(t.TempDir())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok := s.Neighbor(0, 1)
		assert.False(t, ok)
		_, ok = s.Neighbor(0, -1)
		assert.False(t, ok)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("Neighbor did not terminate on an empty directory")
	}
}

func TestNextFreeSlot(t *testing.T) {
	s := New(t.TempDir())

	// Empty directory starts at 1
	n, err := s.NextFreeSlot()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	writeImage(t, s, 7)
	s.Invalidate()
	n, err = s.NextFreeSlot()
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	// Cached: a new file below the cursor is not noticed until invalidated
	writeImage(t, s, 8)
	n, err = s.NextFreeSlot()
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestNextFreeSlotWraps(t *testing.T) {
	s := New(t.TempDir())
	writeImage(t, s, 9999)

	n, err := s.NextFreeSlot()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAdvance(t *testing.T) {
	s := New(t.TempDir())
	n, err := s.NextFreeSlot()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s.Advance(1)
	n, err = s.NextFreeSlot()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s.Advance(9999)
	n, err = s.NextFreeSlot()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDeleteAndLoad(t *testing.T) {
	s := New(t.TempDir())
	writeImage(t, s, 12)

	img, err := s.Load(12)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	require.NoError(t, s.Delete(12))
	assert.False(t, s.Exists(12))

	_, err = s.Load(12)
	assert.Error(t, err)
	assert.Error(t, s.Delete(12))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "photos")
	s := New(dir)
	require.NoError(t, s.EnsureDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent
	require.NoError(t, s.EnsureDir())
}

func TestWatcherInvalidates(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Watch())
	defer s.Close()

	n, err := s.NextFreeSlot()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// An image appearing behind the app's back must reset the cursor
	writeImage(t, s, 50)

	assert.Eventually(t, func() bool {
		n, err := s.NextFreeSlot()
		return err == nil && n == 51
	}, 2*time.Second, 20*time.Millisecond)
}
