package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type FilesystemArea struct {
	directory string
}

// NewFilesystemArea creates the content directory if it does not exist
// and returns an area keyed by file name.
func NewFilesystemArea(directory string) (ContentArea, error) {
	if directory == "" {
		return nil, fmt.Errorf("content directory must not be empty")
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create content directory %q: %w", directory, err)
	}
	return &FilesystemArea{directory: directory}, nil
}

func (a *FilesystemArea) Put(_ context.Context, reference string, data []byte) error {
	if err := ValidateReference(reference); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(a.directory, reference), data, 0o644); err != nil {
		return fmt.Errorf("failed to write asset %q: %w", reference, err)
	}
	return nil
}

func (a *FilesystemArea) Get(_ context.Context, reference string) ([]byte, error) {
	if err := ValidateReference(reference); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(a.directory, reference))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, reference)
		}
		return nil, fmt.Errorf("failed to read asset %q: %w", reference, err)
	}
	return data, nil
}

func (a *FilesystemArea) Exists(_ context.Context, reference string) (bool, error) {
	if err := ValidateReference(reference); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(a.directory, reference))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat asset %q: %w", reference, err)
	}
	return true, nil
}

func (a *FilesystemArea) Delete(_ context.Context, reference string) error {
	if err := ValidateReference(reference); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(a.directory, reference)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, reference)
		}
		return fmt.Errorf("failed to delete asset %q: %w", reference, err)
	}
	return nil
}

func (a *FilesystemArea) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(a.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to list content directory: %w", err)
	}
	references := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		references = append(references, entry.Name())
	}
	return references, nil
}

func (a *FilesystemArea) Close() error {
	return nil
}
