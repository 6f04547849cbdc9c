package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"license-summary/internal/types"
)

// ---------------------------------------------------------------------------
// DefaultCurationTables
// ---------------------------------------------------------------------------

func TestDefaultCurationTablesStampsExtras(t *testing.T) {
	tables := DefaultCurationTables()

	require.Contains(t, tables.ExtraPackages, "ext-openssl")
	openssl := tables.ExtraPackages["ext-openssl"]
	assert.Equal(t, "ext-openssl", openssl.ID)
	assert.Equal(t, "openssl", openssl.Name)
	assert.Equal(t, types.OriginExtra, openssl.Origin)

	assert.Contains(t, tables.Exclude, "fuchsia-cprng")
	assert.Contains(t, tables.ExtraDependencies, "ring")
	assert.Contains(t, tables.Fixups, "ring")
}

func TestDefaultCurationTablesReturnsFreshCopies(t *testing.T) {
	first := DefaultCurationTables()
	first.Exclude["extra-name"] = struct{}{}
	first.ExtraDependencies["ring"] = append(first.ExtraDependencies["ring"], "ext-sqlcipher")
	delete(first.Fixups, "ring")

	second := DefaultCurationTables()
	assert.NotContains(t, second.Exclude, "extra-name")
	assert.Equal(t, []string{"ext-openssl"}, second.ExtraDependencies["ring"])
	assert.Contains(t, second.Fixups, "ring")
}

// ---------------------------------------------------------------------------
// CurationTables.WithOverrides
// ---------------------------------------------------------------------------

func TestWithOverridesMergesAdditively(t *testing.T) {
	tables := DefaultCurationTables()
	merged, err := tables.WithOverrides(types.OverridesFile{
		Exclude: []string{"local-test-helper"},
		ExtraPackages: map[string]types.ExtraPackage{
			"ext-glean": {
				Name:       "glean",
				Repository: "https://github.com/mozilla/glean",
				License:    "MPL-2.0",
			},
		},
		ExtraDependencies: map[string][]string{
			"glean-core": {"ext-glean"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, merged.Exclude, "local-test-helper")
	assert.Contains(t, merged.Exclude, "fuchsia-cprng")

	require.Contains(t, merged.ExtraPackages, "ext-glean")
	glean := merged.ExtraPackages["ext-glean"]
	assert.Equal(t, "ext-glean", glean.ID)
	assert.Equal(t, types.OriginExtra, glean.Origin)

	assert.Equal(t, []string{"ext-glean"}, merged.ExtraDependencies["glean-core"])
	assert.Equal(t, []string{"ext-openssl"}, merged.ExtraDependencies["ring"])

	// The receiver must be left untouched.
	assert.NotContains(t, tables.ExtraPackages, "ext-glean")
	assert.NotContains(t, tables.Exclude, "local-test-helper")
}

func TestWithOverridesReplacesFixupWholesale(t *testing.T) {
	tables := DefaultCurationTables()
	merged, err := tables.WithOverrides(types.OverridesFile{
		Fixups: map[string]types.PackageFixup{
			"ring": {
				License: &types.FieldFixup{Check: "ISC-like", Fixup: "ISC"},
			},
		},
	})
	require.NoError(t, err)

	fixup := merged.Fixups["ring"]
	require.NotNil(t, fixup.License)
	assert.Equal(t, "ISC-like", fixup.License.Check)
	assert.Nil(t, fixup.LicenseFile)
}

func TestWithOverridesRejectsEmptyExcludeName(t *testing.T) {
	_, err := DefaultCurationTables().WithOverrides(types.OverridesFile{
		Exclude: []string{"  "},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty name")
}

func TestWithOverridesRejectsBadExtraID(t *testing.T) {
	_, err := DefaultCurationTables().WithOverrides(types.OverridesFile{
		ExtraPackages: map[string]types.ExtraPackage{
			"glean": {Name: "glean"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start with ext-")
}

func TestWithOverridesRejectsUnnamedExtra(t *testing.T) {
	_, err := DefaultCurationTables().WithOverrides(types.OverridesFile{
		ExtraPackages: map[string]types.ExtraPackage{
			"ext-glean": {Repository: "https://github.com/mozilla/glean"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no name")
}

func TestWithOverridesRejectsUnlicensedExtra(t *testing.T) {
	_, err := DefaultCurationTables().WithOverrides(types.OverridesFile{
		ExtraPackages: map[string]types.ExtraPackage{
			"ext-glean": {Name: "glean"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no license")
}

func TestWithOverridesRejectsDuplicateExtra(t *testing.T) {
	_, err := DefaultCurationTables().WithOverrides(types.OverridesFile{
		ExtraPackages: map[string]types.ExtraPackage{
			"ext-openssl": {Name: "openssl", License: "OpenSSL"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")
}

func TestWithOverridesRejectsEmptyFixup(t *testing.T) {
	_, err := DefaultCurationTables().WithOverrides(types.OverridesFile{
		Fixups: map[string]types.PackageFixup{
			"leftpad": {},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sets no fields")
}

func TestWithOverridesRejectsUnknownExtraDependency(t *testing.T) {
	_, err := DefaultCurationTables().WithOverrides(types.OverridesFile{
		ExtraDependencies: map[string][]string{
			"glean-core": {"ext-glean"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a defined extra package")
}
