// Package blobstore persists encrypted blobs on the local filesystem.
//
// A blob is stored as a single file: the 16-byte initialization vector
// followed by the compressed ciphertext. The store never sees plaintext.
package blobstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkarulin/filevault/internal/common"
	"github.com/mkarulin/filevault/internal/cryptox"
	"github.com/mkarulin/filevault/internal/filex"
)

// Store reads and writes blobs under a single root directory.
type Store struct {
	root string
}

// New creates the root directory if needed and returns a Store bound to it.
func New(root string) (*Store, error) {
	abs, err := filex.EnsureDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return &Store{root: abs}, nil
}

// resolve maps a storage name to an absolute path under the root and
// rejects names that would escape it.
func (s *Store) resolve(name string) (string, error) {
	path := filepath.Join(s.root, name)
	if path != s.root && !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: invalid storage name %q", common.ErrStorage, name)
	}
	return path, nil
}

// Write stores iv followed by data under name and returns the total number
// of bytes written, which is the on-disk blob size recorded in metadata.
func (s *Store) Write(name string, iv []byte, data []byte) (int64, error) {
	path, err := s.resolve(name)
	if err != nil {
		return 0, err
	}

	blob := make([]byte, 0, len(iv)+len(data))
	blob = append(blob, iv...)
	blob = append(blob, data...)

	if err := os.WriteFile(path, blob, 0o640); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return int64(len(blob)), nil
}

// Read loads the blob stored under name and splits it back into the
// initialization vector and the compressed ciphertext.
func (s *Store) Read(name string) (iv []byte, data []byte, err error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, nil, err
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, common.ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	if len(blob) < cryptox.IVSize {
		return nil, nil, fmt.Errorf("%w: blob %q shorter than iv", common.ErrStorageCorrupted, name)
	}
	return blob[:cryptox.IVSize], blob[cryptox.IVSize:], nil
}

// Delete removes the blob stored under name. A missing blob is an error.
func (s *Store) Delete(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

// Cleanup removes the blob if it exists. Used to undo a partial upload, so
// a missing blob is fine.
func (s *Store) Cleanup(name string) error {
	err := s.Delete(name)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	return err
}
