package renderer

import (
	"fmt"
	"os"
	"path/filepath"
)

const archiveExt = ".html"

// Archive writes rendered editions into a directory, one file per day.
type Archive struct {
	dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

// Write stores html as <dir>/<name>.html, creating the directory when needed.
// An existing file for the same name is replaced.
func (a *Archive) Write(name, html string) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid archive name %q", name)
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	path := filepath.Join(a.dir, name+archiveExt)
	tmp, err := os.CreateTemp(a.dir, "."+name+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(html); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write archive file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close archive file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod archive file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename archive file: %w", err)
	}
	return path, nil
}
