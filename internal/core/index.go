package core

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"license-summary/internal/policies"
	"license-summary/internal/types"
)

// PackageIndex holds every package that may appear in a report, keyed
// by package id and by manifest path, after curation has been applied.
type PackageIndex struct {
	byID          map[string]types.PackageRecord
	byManifest    map[string]string
	workspaceRoot string
}

// BuildPackageIndex applies the curation tables to raw cargo metadata:
// excluded packages are dropped, fixups are checked and applied, and
// curated extra packages are added alongside the cargo ones.
func BuildPackageIndex(ctx context.Context, raw types.RawMetadata, tables policies.CurationTables) (PackageIndex, error) {
	assert.NotEmpty(ctx, raw.WorkspaceRoot, "workspace root must be set")
	index := PackageIndex{
		byID:          make(map[string]types.PackageRecord, len(raw.Packages)+len(tables.ExtraPackages)),
		byManifest:    make(map[string]string, len(raw.Packages)),
		workspaceRoot: raw.WorkspaceRoot,
	}
	for _, record := range raw.Packages {
		if _, excluded := tables.Exclude[record.Name]; excluded {
			continue
		}
		record.Origin = types.OriginCargo
		fixed, err := applyFixup(record, tables.Fixups[record.Name])
		if err != nil {
			return PackageIndex{}, err
		}
		if _, dup := index.byID[fixed.ID]; dup {
			return PackageIndex{}, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate package id %s in cargo metadata", fixed.ID))
		}
		index.byID[fixed.ID] = fixed
		if _, dup := index.byManifest[fixed.ManifestPath]; dup {
			return PackageIndex{}, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate manifest path %s in cargo metadata", fixed.ManifestPath))
		}
		index.byManifest[fixed.ManifestPath] = fixed.ID
	}
	for _, id := range sortedKeys(tables.ExtraPackages) {
		if _, dup := index.byID[id]; dup {
			return PackageIndex{}, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("extra package id %s collides with a cargo package", id))
		}
		index.byID[id] = tables.ExtraPackages[id]
	}
	log.Ctx(ctx).Debug().Int("packages", len(index.byID)).Msg("package index built")
	return index, nil
}

// applyFixup verifies each mentioned field against the value cargo
// reported and rewrites it when a replacement is recorded. A mismatch
// means upstream metadata changed and the fixup needs a fresh audit.
func applyFixup(record types.PackageRecord, fixup types.PackageFixup) (types.PackageRecord, error) {
	fields := []struct {
		name   string
		value  *string
		change *types.FieldFixup
	}{
		{"license", &record.License, fixup.License},
		{"license_file", &record.LicenseFile, fixup.LicenseFile},
		{"license_text", &record.LicenseText, fixup.LicenseText},
		{"repository", &record.Repository, fixup.Repository},
	}
	for _, field := range fields {
		if field.change == nil {
			continue
		}
		if *field.value != field.change.Check {
			return types.PackageRecord{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("stale metadata fixup for %s.%s: cargo reports %q, fixup expects %q",
					record.Name, field.name, *field.value, field.change.Check))
		}
		if field.change.Fixup != "" {
			*field.value = field.change.Fixup
		}
	}
	return record, nil
}

func (x PackageIndex) WorkspaceRoot() string {
	return x.workspaceRoot
}

// IDs returns every indexed package id in sorted order.
func (x PackageIndex) IDs() []string {
	return sortedKeys(x.byID)
}

func (x PackageIndex) PackageByID(id string) (types.PackageRecord, error) {
	record, ok := x.byID[id]
	if !ok {
		return types.PackageRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown package id %s", id))
	}
	return record, nil
}

func (x PackageIndex) PackageByManifestPath(path string) (types.PackageRecord, error) {
	id, ok := x.byManifest[path]
	if !ok {
		return types.PackageRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no indexed package for manifest %s", path))
	}
	return x.byID[id], nil
}

// IsExternalDependency reports whether a package is third-party code.
// Curated extras always are; cargo packages are external when they come
// from a registry or live outside the workspace root.
func (x PackageIndex) IsExternalDependency(id string) (bool, error) {
	record, err := x.PackageByID(id)
	if err != nil {
		return false, err
	}
	if record.Origin == types.OriginExtra {
		return true, nil
	}
	if record.Source != "" {
		return true, nil
	}
	rel, err := filepath.Rel(x.workspaceRoot, record.ManifestPath)
	if err != nil {
		return true, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true, nil
	}
	return false, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
