package core

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"license-summary/internal/policies"
	"license-summary/internal/ports"
	"license-summary/internal/types"
)

// LicenseTextResolver finds the full text of the license a package is
// used under. Inline curated text wins, then the file the package
// declares, then a scan of the package directory for conventionally
// named license files.
type LicenseTextResolver struct {
	Fetcher ports.RemoteFetchPort
	Files   ports.PackageFilesPort
}

func NewLicenseTextResolver(fetcher ports.RemoteFetchPort, files ports.PackageFilesPort) LicenseTextResolver {
	return LicenseTextResolver{Fetcher: fetcher, Files: files}
}

func (r LicenseTextResolver) ResolveText(ctx context.Context, record types.PackageRecord, license string) (string, error) {
	if record.LicenseText != "" {
		return record.LicenseText, nil
	}
	if record.LicenseFile != "" {
		return r.readDeclaredFile(ctx, record)
	}
	if record.ManifestPath == "" {
		return "", missingLicenseFile(record)
	}
	return r.scanPackageDir(ctx, record, license)
}

// readDeclaredFile loads the license file named in package metadata.
// Fixups may point the name at a URL when the file is absent from the
// published package.
func (r LicenseTextResolver) readDeclaredFile(ctx context.Context, record types.PackageRecord) (string, error) {
	if strings.HasPrefix(record.LicenseFile, "https://") {
		if r.Fetcher == nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("license text resolver requires the remote fetch port")
		}
		return r.Fetcher.FetchText(ctx, record.LicenseFile)
	}
	if r.Files == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("license text resolver requires the package files port")
	}
	return r.Files.ReadFile(filepath.Dir(record.ManifestPath), record.LicenseFile)
}

// scanPackageDir looks for license files under the conventional names
// for the chosen license. Exactly one candidate must match.
func (r LicenseTextResolver) scanPackageDir(ctx context.Context, record types.PackageRecord, license string) (string, error) {
	if r.Files == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("license text resolver requires the package files port")
	}
	dir := filepath.Dir(record.ManifestPath)
	names, err := r.Files.ListFiles(dir)
	if err != nil {
		return "", err
	}
	wanted := policies.ConventionalLicenseFileNames(license)
	var matches []string
	for _, name := range names {
		if _, ok := wanted[strings.ToLower(name)]; ok {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	switch {
	case len(matches) == 1:
		text, err := r.Files.ReadFile(dir, matches[0])
		if err != nil {
			return "", err
		}
		log.Ctx(ctx).Debug().Str("package", record.Name).Str("file", matches[0]).Msg("license file located by convention")
		return text, nil
	case len(matches) > 1:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("multiple ambiguous license files found for %s: %s", record.Name, strings.Join(matches, ", ")))
	default:
		return "", missingLicenseFile(record)
	}
}

func missingLicenseFile(record types.PackageRecord) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("could not find license file for %s; try checking %s", record.Name, record.Repository))
}
