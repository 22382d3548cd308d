package diskcache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmgilman/go/fs/core"
)

const (
	// recordSuffix marks files managed by the store. Anything else in the
	// storage root is left alone.
	recordSuffix = ".entry"
	// tempDirName holds in-flight writes before they are renamed into place.
	tempDirName = ".tmp"
	// locatorBytes is the length of the random locator id before encoding.
	locatorBytes = 16
)

// entryStore persists serialized records against opaque locators. Writes are
// atomic: data lands in a temp file first and is renamed into place, so a
// record is either fully present or absent.
type entryStore struct {
	fs      core.FS
	root    string
	tempDir string
}

// newEntryStore creates a store rooted at the given path, creating the
// directory tree if needed.
func newEntryStore(fsys core.FS, root string) (*entryStore, error) {
	if fsys == nil {
		return nil, fmt.Errorf("filesystem cannot be nil")
	}
	if root == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}

	tempDir := filepath.Join(root, tempDirName)
	if err := fsys.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %q: %w", root, err)
	}

	return &entryStore{fs: fsys, root: root, tempDir: tempDir}, nil
}

// newLocator returns a fresh random locator. Locators are never derived from
// keys; a replaced entry always gets a new one.
func newLocator() (string, error) {
	buf := make([]byte, locatorBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate locator: %w", err)
	}
	return hex.EncodeToString(buf) + recordSuffix, nil
}

// Write persists data under locator atomically.
func (s *entryStore) Write(ctx context.Context, locator string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	tempPath := filepath.Join(s.tempDir, locator)
	if err := s.fs.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record %q: %w", locator, err)
	}
	if err := s.fs.Rename(tempPath, filepath.Join(s.root, locator)); err != nil {
		_ = s.fs.Remove(tempPath)
		return fmt.Errorf("failed to publish record %q: %w", locator, err)
	}
	return nil
}

// Read returns the raw bytes stored under locator, or errRecordNotFound if
// no such record exists.
func (s *entryStore) Read(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	data, err := s.fs.ReadFile(filepath.Join(s.root, locator))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errRecordNotFound
		}
		return nil, fmt.Errorf("failed to read record %q: %w", locator, err)
	}
	return data, nil
}

// Delete removes the record stored under locator. Deleting an absent record
// is not an error.
func (s *entryStore) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	if err := s.fs.Remove(filepath.Join(s.root, locator)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove record %q: %w", locator, err)
	}
	return nil
}

// List returns the locators of all records in the storage root. A missing
// root yields an empty list.
func (s *entryStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	entries, err := s.fs.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list records in %q: %w", s.root, err)
	}

	var locators []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordSuffix) {
			continue
		}
		locators = append(locators, entry.Name())
	}
	return locators, nil
}

// CleanupTemp removes leftover temp files from interrupted writes.
func (s *entryStore) CleanupTemp(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	entries, err := s.fs.ReadDir(s.tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list temp files: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := s.fs.Remove(filepath.Join(s.tempDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove temp file %q: %w", entry.Name(), err)
		}
	}
	return nil
}
