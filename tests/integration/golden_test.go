package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"license-summary/internal/adapters"
	"license-summary/internal/app"
	"license-summary/internal/ports"
	"license-summary/internal/types"
	"license-summary/tests/testutil"
)

const (
	mplGoldenText    = "Mozilla Public License Version 2.0\n\n1. Definitions"
	apacheGoldenText = "Apache License\nVersion 2.0, January 2004\n\nCopyright [yyyy] [name of copyright owner]"
	mitGoldenText    = "The MIT License (MIT)\n\nCopyright (c) 2015 Andrew Gallant"
)

// TestGoldenReport generates the report over the sample crate tree and
// compares both formats against committed golden files. If the golden
// files do not exist yet (first run), they are written so they can be
// committed.
//
// To update golden files after an intentional change, delete the
// testdata/golden/ directory and re-run the test.
func TestGoldenReport(t *testing.T) {
	root := testutil.RepoRoot(t)
	goldenDir := filepath.Join(root, "tests", "integration", "testdata", "golden")

	service, req := goldenReportService(t)

	markdown, err := service.Report(t.Context(), req)
	require.NoError(t, err)

	jsonReq := req
	jsonReq.Format = types.ReportFormatJSON
	machine, err := service.Report(t.Context(), jsonReq)
	require.NoError(t, err)

	outputs := map[string]string{
		"report.md":   markdown.Output,
		"report.json": machine.Output,
	}

	for name, actual := range outputs {
		t.Run(name, func(t *testing.T) {
			goldenPath := filepath.Join(goldenDir, name)
			if _, statErr := os.Stat(goldenPath); os.IsNotExist(statErr) {
				// Golden file doesn't exist yet -- write it.
				require.NoError(t, os.MkdirAll(goldenDir, 0o755))
				require.NoError(t, os.WriteFile(goldenPath, []byte(actual), 0o644))
				t.Logf("golden file written: %s (commit it)", goldenPath)
				return
			}

			expected, err := os.ReadFile(goldenPath)
			require.NoError(t, err)
			assert.Equal(t, string(expected), actual,
				"golden mismatch for %s -- delete testdata/golden/ and re-run to regenerate", name)
		})
	}
}

// TestGoldenReportStructure verifies the structural properties of the
// report independent of exact bytes -- section order, links, counts.
func TestGoldenReportStructure(t *testing.T) {
	service, req := goldenReportService(t)

	result, err := service.Report(t.Context(), req)
	require.NoError(t, err)
	require.Equal(t, 3, result.Dependencies)
	require.Equal(t, 3, result.Groups)

	t.Run("table of contents orders licenses by preference", func(t *testing.T) {
		var toc []string
		for _, line := range strings.Split(result.Output, "\n") {
			if strings.HasPrefix(line, "* [") {
				toc = append(toc, line)
			}
		}
		assert.Equal(t, []string{
			"* [Mozilla Public License 2.0](#mozilla-public-license-20)",
			"* [Apache License 2.0](#apache-license-20)",
			"* [MIT License: memchr](#mit-license-memchr)",
		}, toc)
	})

	t.Run("every dependency is linked exactly once", func(t *testing.T) {
		assert.Equal(t, 1, strings.Count(result.Output, "[smallvec]("))
		assert.Equal(t, 1, strings.Count(result.Output, "[serde]("))
		assert.Equal(t, 1, strings.Count(result.Output, "[memchr]("))
	})

	t.Run("apache section keeps the copyright placeholder", func(t *testing.T) {
		assert.Contains(t, result.Output, "Copyright [yyyy] [name of copyright owner]")
	})

	t.Run("json entries are sorted by name", func(t *testing.T) {
		jsonReq := req
		jsonReq.Format = types.ReportFormatJSON
		machine, err := service.Report(t.Context(), jsonReq)
		require.NoError(t, err)

		var entries []types.LicenseInfo
		require.NoError(t, json.Unmarshal([]byte(machine.Output), &entries))
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name)
		}
		assert.Equal(t, []string{"memchr", "serde", "smallvec"}, names)
	})
}

// TestGoldenLicenseTexts verifies that each dependency carries the
// exact license text found in its crate directory.
func TestGoldenLicenseTexts(t *testing.T) {
	service, req := goldenReportService(t)
	req.Format = types.ReportFormatJSON

	result, err := service.Report(t.Context(), req)
	require.NoError(t, err)

	var entries []types.LicenseInfo
	require.NoError(t, json.Unmarshal([]byte(result.Output), &entries))
	texts := map[string]string{}
	for _, entry := range entries {
		texts[entry.Name] = entry.LicenseText
	}

	assert.Equal(t, mplGoldenText, texts["smallvec"])
	assert.Equal(t, apacheGoldenText, texts["serde"])
	assert.Equal(t, mitGoldenText, texts["memchr"])
}

// goldenReportService lays out the sample crate tree in a temp dir and
// wires a service around it, with only the cargo invocation stubbed.
func goldenReportService(t *testing.T) (app.Service, app.ReportRequest) {
	t.Helper()
	root := t.TempDir()
	testutil.WriteFileTree(t, root, map[string]string{
		"workspace/app/Cargo.toml":      "[package]\n",
		"registry/smallvec/Cargo.toml":  "[package]\n",
		"registry/smallvec/License.txt": mplGoldenText,
		"registry/serde/Cargo.toml":     "[package]\n",
		"registry/serde/LICENSE-APACHE": apacheGoldenText,
		"registry/memchr/Cargo.toml":    "[package]\n",
		"registry/memchr/LICENSE-MIT":   mitGoldenText,
	})

	manifest := func(dir string) string {
		return filepath.Join(root, filepath.FromSlash(dir), "Cargo.toml")
	}
	registry := "registry+https://github.com/rust-lang/crates.io-index"
	cargo := stubCargo{
		metadata: types.RawMetadata{
			WorkspaceRoot: filepath.Join(root, "workspace"),
			Packages: []types.PackageRecord{
				{
					ID:           "app 0.1.0",
					Name:         "app",
					Version:      "0.1.0",
					License:      "MPL-2.0",
					ManifestPath: manifest("workspace/app"),
				},
				{
					ID:           "smallvec 1.10.0",
					Name:         "smallvec",
					Version:      "1.10.0",
					License:      "MPL-2.0",
					Repository:   "https://github.com/servo/rust-smallvec",
					ManifestPath: manifest("registry/smallvec"),
					Source:       registry,
				},
				{
					ID:           "serde 1.0.104",
					Name:         "serde",
					Version:      "1.0.104",
					License:      "MIT OR Apache-2.0",
					Repository:   "https://github.com/serde-rs/serde",
					ManifestPath: manifest("registry/serde"),
					Source:       registry,
				},
				{
					ID:           "memchr 2.5.0",
					Name:         "memchr",
					Version:      "2.5.0",
					License:      "MIT",
					Repository:   "https://github.com/BurntSushi/memchr",
					ManifestPath: manifest("registry/memchr"),
					Source:       registry,
				},
			},
		},
		plans: map[string][]string{
			"app|x86_64-unknown-linux-gnu": {
				manifest("workspace/app"),
				manifest("registry/smallvec"),
				manifest("registry/serde"),
				manifest("registry/memchr"),
			},
		},
	}

	service := app.Service{
		Cargo:   func(bin string, toolchain string, dir string) ports.CargoPort { return cargo },
		Fetcher: adapters.NewRemoteFetchAdapter(0),
		Files:   adapters.NewPackageFilesAdapter(),
		Sink:    adapters.NewReportWriterAdapter(),
	}
	req := app.ReportRequest{
		Package: "app",
		Targets: []string{"x86_64-unknown-linux-gnu"},
	}
	return service, req
}

// stubCargo serves canned cargo output for a crate tree that only
// exists as fixture files.
type stubCargo struct {
	metadata types.RawMetadata
	plans    map[string][]string
}

func (c stubCargo) WorkspaceMetadata(context.Context) (types.RawMetadata, error) {
	return c.metadata, nil
}

func (c stubCargo) BuildPlanInputs(_ context.Context, pkg string, target string) ([]string, error) {
	return c.plans[pkg+"|"+target], nil
}
