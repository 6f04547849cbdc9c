package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOverrides = `
exclude:
  - local-test-helper

extra_packages:
  ext-glean:
    name: glean
    repository: https://github.com/mozilla/glean
    license: MPL-2.0
    license_file: https://raw.githubusercontent.com/mozilla/glean/main/LICENSE

extra_dependencies:
  glean-core:
    - ext-glean

fixups:
  leftpad:
    license:
      check: WTFPL
      fixup: MIT
    repository:
      check: https://github.com/x/leftpad
`

func TestOverridesFileAdapter_LoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleOverrides), 0644))

	adapter := NewOverridesFileAdapter()
	overrides, err := adapter.LoadOverrides(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"local-test-helper"}, overrides.Exclude)

	require.Contains(t, overrides.ExtraPackages, "ext-glean")
	glean := overrides.ExtraPackages["ext-glean"]
	assert.Equal(t, "glean", glean.Name)
	assert.Equal(t, "MPL-2.0", glean.License)
	assert.Equal(t, "https://raw.githubusercontent.com/mozilla/glean/main/LICENSE", glean.LicenseFile)

	assert.Equal(t, []string{"ext-glean"}, overrides.ExtraDependencies["glean-core"])

	require.Contains(t, overrides.Fixups, "leftpad")
	fixup := overrides.Fixups["leftpad"]
	require.NotNil(t, fixup.License)
	assert.Equal(t, "WTFPL", fixup.License.Check)
	assert.Equal(t, "MIT", fixup.License.Fixup)
	require.NotNil(t, fixup.Repository)
	assert.Equal(t, "https://github.com/x/leftpad", fixup.Repository.Check)
	assert.Empty(t, fixup.Repository.Fixup)
	assert.Nil(t, fixup.LicenseFile)
}

func TestOverridesFileAdapter_MissingFile(t *testing.T) {
	adapter := NewOverridesFileAdapter()
	_, err := adapter.LoadOverrides(filepath.Join(t.TempDir(), "gone.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overrides file not found")
}

func TestOverridesFileAdapter_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exclude: [unclosed"), 0644))

	adapter := NewOverridesFileAdapter()
	_, err := adapter.LoadOverrides(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse overrides yaml")
}
