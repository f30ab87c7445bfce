package storage_test

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcom/watchlist/pkg/storage"
)

// Minimal valid PNG header plus IHDR chunk start, enough for sniffing.
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00,
}

func newTestStorage(t *testing.T) *storage.FileCoverStorage {
	t.Helper()
	s, err := storage.NewFileCoverStorage(afero.NewMemMapFs(), "/covers")
	require.NoError(t, err)
	return s
}

func TestSaveAndOpenCover(t *testing.T) {
	s := newTestStorage(t)
	entryID := uuid.New()

	ref, err := s.Save(entryID, pngBytes)
	require.NoError(t, err)
	assert.Equal(t, entryID.String()+".png", ref)

	f, err := s.Open(ref)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestSaveRejectsNonImage(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Save(uuid.New(), []byte("{\"not\": \"an image\"}"))
	assert.ErrorIs(t, err, storage.ErrNotAnImage)
}

func TestSaveRejectsEmptyPayload(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Save(uuid.New(), nil)
	assert.ErrorIs(t, err, storage.ErrNotAnImage)
}

func TestRemoveUnknownRefIsNoop(t *testing.T) {
	s := newTestStorage(t)

	assert.NoError(t, s.Remove("does-not-exist.png"))
}

func TestSaveOverwritesExistingCover(t *testing.T) {
	s := newTestStorage(t)
	entryID := uuid.New()

	ref1, err := s.Save(entryID, pngBytes)
	require.NoError(t, err)
	ref2, err := s.Save(entryID, pngBytes)
	require.NoError(t, err)

	assert.Equal(t, ref1, ref2)
}
