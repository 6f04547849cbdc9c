package ports

// SnapshotPort reads a previously generated report for drift checks.
type SnapshotPort interface {
	ReadSnapshot(path string) (string, error)
}
