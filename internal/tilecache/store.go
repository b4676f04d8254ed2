package tilecache

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// TileCoord identifies a single tile by zoom/x/y.
type TileCoord struct {
	Z, X, Y int
}

// tileFilePattern matches the on-disk layout <z>/<x>/<y>.png relative to
// a cache root, as walked by Sweep and by the coverage analyzer.
var tileFilePattern = regexp.MustCompile(`^(\d+)/(\d+)/(\d+)\.png$`)

// Store is the on-disk tile cache: files at <root>/<z>/<x>/<y>.png,
// directories created lazily, payload optionally zlib-deflated.
type Store struct {
	root               string
	compressionEnabled bool
}

// NewStore opens a Store rooted at dir. The directory is not required to
// exist yet; it is created lazily as tiles are written.
func NewStore(dir string, compressionEnabled bool) *Store {
	return &Store{root: dir, compressionEnabled: compressionEnabled}
}

func (s *Store) path(z, x, y int) string {
	return filepath.Join(s.root, strconv.Itoa(z), strconv.Itoa(x), strconv.Itoa(y)+".png")
}

// Root returns the cache's root directory.
func (s *Store) Root() string {
	return s.root
}

// DiskStats walks the cache and reports the number of tile files and
// their total size on disk.
func (s *Store) DiskStats() (count int64, totalBytes int64, err error) {
	walkErr := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := parseTilePath(filepath.ToSlash(mustRel(s.root, path))); !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		count++
		totalBytes += info.Size()
		return nil
	})
	if walkErr != nil {
		return count, totalBytes, fmt.Errorf("tilecache: disk stats: %w", walkErr)
	}
	return count, totalBytes, nil
}

// Has reports whether a tile file exists without reading its payload.
func (s *Store) Has(z, x, y int) bool {
	_, err := os.Stat(s.path(z, x, y))
	return err == nil
}

// Get reads a tile's PNG payload, transparently decompressing it if the
// stored bytes begin with a zlib header. The bool is false on a cache miss.
func (s *Store) Get(z, x, y int) ([]byte, bool, error) {
	raw, err := os.ReadFile(s.path(z, x, y))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("tilecache: read %d/%d/%d: %w", z, x, y, err)
	}

	if looksZlib(raw) {
		data, err := decompressTile(raw)
		if err != nil {
			return nil, false, err
		}
		return data, true, nil
	}
	return raw, true, nil
}

// Put writes a tile's PNG payload, compressing it first when the store was
// opened with compression enabled. The write lands in a temp file in the
// same directory and is renamed into place so readers never see a partial
// tile.
func (s *Store) Put(z, x, y int, data []byte) error {
	dest := s.path(z, x, y)
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("tilecache: mkdir %s: %w", dir, err)
	}

	payload := data
	if s.compressionEnabled {
		compressed, err := compressTile(data)
		if err != nil {
			return err
		}
		payload = compressed
	}

	tmp, err := os.CreateTemp(dir, ".tile-*.tmp")
	if err != nil {
		return fmt.Errorf("tilecache: create temp in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("tilecache: write temp %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("tilecache: close temp %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("tilecache: rename into %s: %w", dest, err)
	}
	return nil
}

// Sweep walks the cache removing tiles whose mtime is older than maxAge,
// and returns the coordinates removed so callers can re-enqueue them as
// non-priority downloads.
func (s *Store) Sweep(maxAge time.Duration) ([]TileCoord, error) {
	cutoff := time.Now().Add(-maxAge)
	var removed []TileCoord

	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		coord, ok := parseTilePath(filepath.ToSlash(rel))
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
			removed = append(removed, coord)
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("tilecache: sweep: %w", err)
	}
	return removed, nil
}

// ClearCache removes every tile file; if olderThan is non-nil, only files
// whose mtime predates it are removed. It returns the number removed.
func (s *Store) ClearCache(olderThan *time.Duration) (int, error) {
	var cutoff time.Time
	if olderThan != nil {
		cutoff = time.Now().Add(-*olderThan)
	}

	count := 0
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := parseTilePath(filepath.ToSlash(mustRel(s.root, path))); !ok {
			return nil
		}
		if olderThan != nil {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if !info.ModTime().Before(cutoff) {
				return nil
			}
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("tilecache: clear: %w", err)
	}
	return count, nil
}

func mustRel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

func parseTilePath(rel string) (TileCoord, bool) {
	m := tileFilePattern.FindStringSubmatch(rel)
	if m == nil {
		return TileCoord{}, false
	}
	z, err1 := strconv.Atoi(m[1])
	x, err2 := strconv.Atoi(m[2])
	y, err3 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return TileCoord{}, false
	}
	return TileCoord{Z: z, X: x, Y: y}, true
}
