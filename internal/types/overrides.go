package types

// FieldFixup records the value cargo currently reports for a metadata
// field together with an optional replacement. The check guards against
// an upstream release silently changing metadata underneath a
// hand-audited correction.
type FieldFixup struct {
	// Check is the value cargo must report for the fixup to be valid.
	// An empty check means the field must be unset.
	Check string `yaml:"check"`
	// Fixup replaces the field value when non-empty. Leave it empty to
	// verify the check without changing anything.
	Fixup string `yaml:"fixup,omitempty"`
}

// PackageFixup corrects the metadata of one package. Fields left nil
// are not checked and not changed.
type PackageFixup struct {
	License     *FieldFixup `yaml:"license,omitempty"`
	LicenseFile *FieldFixup `yaml:"license_file,omitempty"`
	LicenseText *FieldFixup `yaml:"license_text,omitempty"`
	Repository  *FieldFixup `yaml:"repository,omitempty"`
}

// ExtraPackage describes a dependency that cargo cannot report, such as
// a dynamically linked system library.
type ExtraPackage struct {
	Name        string `yaml:"name"`
	Repository  string `yaml:"repository"`
	License     string `yaml:"license"`
	LicenseFile string `yaml:"license_file,omitempty"`
	LicenseText string `yaml:"license_text,omitempty"`
}

// OverridesFile is the on-disk shape of a curation overrides document.
// Its entries are merged on top of the built-in curation tables.
type OverridesFile struct {
	Exclude           []string                `yaml:"exclude,omitempty"`
	ExtraPackages     map[string]ExtraPackage `yaml:"extra_packages,omitempty"`
	ExtraDependencies map[string][]string     `yaml:"extra_dependencies,omitempty"`
	Fixups            map[string]PackageFixup `yaml:"fixups,omitempty"`
}
