package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// CoverStorage persists cover images for watchlist entries and hands back a
// stable reference string that the entry records.
type CoverStorage interface {
	// Save stores an image blob for the given entry and returns its reference.
	Save(entryID uuid.UUID, data []byte) (string, error)

	// Open opens a previously stored cover by its reference.
	Open(ref string) (io.ReadCloser, error)

	// Remove deletes a stored cover. Removing an unknown reference is not an error.
	Remove(ref string) error
}

// ErrNotAnImage is returned when the uploaded payload is not an image.
var ErrNotAnImage = fmt.Errorf("uploaded file is not an image")

// FileCoverStorage stores covers on a filesystem. The filesystem is an
// afero.Fs so tests can run against an in-memory one.
type FileCoverStorage struct {
	fs      afero.Fs
	baseDir string
}

// NewFileCoverStorage creates a cover storage rooted at baseDir.
func NewFileCoverStorage(fs afero.Fs, baseDir string) (*FileCoverStorage, error) {
	if err := fs.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cover directory: %w", err)
	}
	return &FileCoverStorage{fs: fs, baseDir: baseDir}, nil
}

// Save sniffs the payload's content type, rejects non-images, and writes the
// blob under a name derived from the entry ID. One cover per entry: a later
// upload for the same entry with the same detected type overwrites the file.
func (s *FileCoverStorage) Save(entryID uuid.UUID, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNotAnImage
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotAnImage
	}

	ref := entryID.String() + mtype.Extension()
	if err := afero.WriteFile(s.fs, filepath.Join(s.baseDir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}
	return ref, nil
}

// Open opens a stored cover by reference.
func (s *FileCoverStorage) Open(ref string) (io.ReadCloser, error) {
	return s.fs.Open(filepath.Join(s.baseDir, filepath.Base(ref)))
}

// Remove deletes a stored cover by reference.
func (s *FileCoverStorage) Remove(ref string) error {
	err := s.fs.Remove(filepath.Join(s.baseDir, filepath.Base(ref)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
