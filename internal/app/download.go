package app

import (
	"fmt"
	"os"
	"path/filepath"

	"rptconv/pkg/utils"
)

// Save writes data to dir under name and returns the final path. The data is
// staged in a temporary file which is always released; it only becomes
// visible under name once fully written.
func Save(dir, name, fallback string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	name = utils.SafeFilename(name, fallback)
	dst := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	committed := false
	defer func() {
		tmp.Close()
		if !committed {
			os.Remove(tmp.Name())
		}
	}()

	if err := tmp.Chmod(0644); err != nil {
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	committed = true

	return dst, nil
}
