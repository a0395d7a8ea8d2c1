package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is a private directory holding the temporary files of one request
type Workspace struct {
	ID   string
	Path string
}

// NewWorkspace creates a uniquely named directory under root. An empty root
// means the system temp directory.
func NewWorkspace(root string) (*Workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	id := uuid.NewString()
	path := filepath.Join(root, "rptconv-"+id)
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{ID: id, Path: path}, nil
}

// File returns the path of name inside the workspace
func (w *Workspace) File(name string) string {
	return filepath.Join(w.Path, filepath.Base(name))
}

// Save copies r into name inside the workspace and returns its path
func (w *Workspace) Save(name string, r io.Reader) (string, error) {
	path := w.File(name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// Close removes the workspace and everything in it
func (w *Workspace) Close() error {
	if err := os.RemoveAll(w.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove workspace: %w", err)
	}
	return nil
}
