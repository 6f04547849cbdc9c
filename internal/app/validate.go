package app

import (
	"context"

	"license-summary/internal/core"
)

// Validate dry-runs the curation pipeline without fetching any license
// texts: it builds the index, applies fixups and checks that every
// external dependency carries an acceptable license. This is the quick
// check CI runs when a lockfile changes.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	index, _, _, err := s.buildIndex(ctx, req.OverridesPath, req.Workspace, req.CargoBin, req.CargoToolchain)
	if err != nil {
		return ValidateResult{}, err
	}
	result := ValidateResult{Licenses: map[string]int{}}
	for _, id := range index.IDs() {
		result.Packages++
		external, err := index.IsExternalDependency(id)
		if err != nil {
			return ValidateResult{}, err
		}
		if !external {
			continue
		}
		record, err := index.PackageByID(id)
		if err != nil {
			return ValidateResult{}, err
		}
		license, err := core.PickLicense(id, record.License)
		if err != nil {
			return ValidateResult{}, err
		}
		result.External++
		result.Licenses[license]++
	}
	return result, nil
}
