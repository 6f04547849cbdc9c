package adapters

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"license-summary/internal/ports"
)

// PackageFilesAdapter reads license files out of unpacked crate
// directories in the local cargo cache.
type PackageFilesAdapter struct{}

func NewPackageFilesAdapter() PackageFilesAdapter {
	return PackageFilesAdapter{}
}

func (a PackageFilesAdapter) ReadFile(dir string, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read license file %s", name)).
			WithCause(err)
	}
	return string(data), nil
}

func (a PackageFilesAdapter) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to list package directory %s", dir)).
			WithCause(err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

var _ ports.PackageFilesPort = PackageFilesAdapter{}
