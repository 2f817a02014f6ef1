package storage

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultDir = "uploads"

// StoredFile describes an upload persisted to local disk.
type StoredFile struct {
	Path string
	Size int64
}

// Store persists uploaded documents to a single local directory.
// Filenames are <field>-<unixms>-<rand>.<ext>, so concurrent saves never
// collide and an existing file is never overwritten.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	if baseDir == "" {
		baseDir = DefaultDir
	}
	return &Store{baseDir: baseDir}
}

func (s *Store) Dir() string { return s.baseDir }

// Save writes the upload to disk and returns its path. A failed write
// removes the partial file; callers must not record the path on error.
func (s *Store) Save(field string, fh *multipart.FileHeader) (*StoredFile, error) {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixMilli(), uuid.NewString()[:8], ext)
	path := filepath.Join(s.baseDir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", name, err)
	}

	return &StoredFile{Path: path, Size: written}, nil
}

// Remove unlinks a stored file. Disk state is not guaranteed consistent
// with the database after partial failures, so a missing file is fine and
// any other error is only logged.
func (s *Store) Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("storage: remove %s: %v", path, err)
	}
}

// Sweep deletes files in the upload directory that no committed row
// references and that are older than the grace window. It returns the
// number of files removed.
func (s *Store) Sweep(referenced map[string]bool, olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read upload directory: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		if referenced[path] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Printf("storage: sweep %s: %v", path, err)
			continue
		}
		removed++
	}

	return removed, nil
}
