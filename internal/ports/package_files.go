package ports

// PackageFilesPort reads files from an unpacked package directory, such
// as the crate source next to a Cargo.toml manifest.
type PackageFilesPort interface {
	ReadFile(dir string, name string) (string, error)
	ListFiles(dir string) ([]string, error)
}
