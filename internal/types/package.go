package types

// PackageRecord holds the metadata kept for a single package in the
// dependency tree. Records usually come from `cargo metadata`, with
// curation fixups applied on top; curated extra packages use the same
// shape with a synthetic id.
type PackageRecord struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Version      string        `json:"version"`
	License      string        `json:"license"`
	LicenseFile  string        `json:"license_file"`
	LicenseText  string        `json:"license_text"`
	Repository   string        `json:"repository"`
	ManifestPath string        `json:"manifest_path"`
	Source       string        `json:"source"`
	Origin       PackageOrigin `json:"-"`
}

// RawMetadata mirrors the parts of `cargo metadata` output that the
// report pipeline consumes.
type RawMetadata struct {
	Packages      []PackageRecord `json:"packages"`
	WorkspaceRoot string          `json:"workspace_root"`
}
