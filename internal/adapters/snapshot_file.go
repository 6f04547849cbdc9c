package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"license-summary/internal/ports"
)

// SnapshotFileAdapter reads a checked-in report for drift comparison.
type SnapshotFileAdapter struct{}

func NewSnapshotFileAdapter() SnapshotFileAdapter {
	return SnapshotFileAdapter{}
}

func (a SnapshotFileAdapter) ReadSnapshot(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("report snapshot not found").
			WithCause(err)
	}
	return string(data), nil
}

var _ ports.SnapshotPort = SnapshotFileAdapter{}
