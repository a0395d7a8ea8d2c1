package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWorkspaceLifecycle(t *testing.T) {
	root := t.TempDir()

	ws, err := NewWorkspace(root)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if filepath.Dir(ws.Path) != root || !strings.Contains(ws.Path, ws.ID) {
		t.Errorf("workspace path %q not under %q with id %q", ws.Path, root, ws.ID)
	}

	path, err := ws.Save("input.rpt", strings.NewReader("REPORT"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "REPORT" {
		t.Fatalf("ReadFile = %q, %v", got, err)
	}

	if err := ws.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(ws.Path); !os.IsNotExist(err) {
		t.Errorf("workspace still exists after Close: %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestWorkspaceFileStaysInside(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	defer ws.Close()

	if got := ws.File("../../etc/passwd"); got != filepath.Join(ws.Path, "passwd") {
		t.Errorf("File() = %q", got)
	}
}

func TestWorkspacesAreDistinct(t *testing.T) {
	root := t.TempDir()
	a, err := NewWorkspace(root)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	b, err := NewWorkspace(root)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if a.Path == b.Path {
		t.Errorf("workspaces share path %q", a.Path)
	}
}
