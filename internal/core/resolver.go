package core

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"license-summary/internal/policies"
	"license-summary/internal/ports"
)

// DependencyResolver determines which packages from the index actually
// end up in a build, by asking cargo for its build plan.
type DependencyResolver struct {
	Cargo ports.CargoPort
}

func NewDependencyResolver(cargo ports.CargoPort) DependencyResolver {
	return DependencyResolver{Cargo: cargo}
}

// Resolve returns the sorted ids of the packages a build of pkg would
// compile for the given targets. With no package named, every indexed
// package is returned; with no targets, one plan covers all targets of
// the host platform. Curated extra dependencies are folded in last.
func (r DependencyResolver) Resolve(ctx context.Context, index PackageIndex, tables policies.CurationTables, pkg string, targets []string) ([]string, error) {
	if pkg == "" {
		if len(targets) > 0 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("targets can only be filtered when a package is named")
		}
		return index.IDs(), nil
	}
	if r.Cargo == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dependency resolver requires the cargo port")
	}

	planTargets := targets
	if len(planTargets) == 0 {
		planTargets = []string{""}
	}
	resolved := make(map[string]struct{})
	for _, target := range planTargets {
		manifests, err := r.Cargo.BuildPlanInputs(ctx, pkg, target)
		if err != nil {
			return nil, err
		}
		for _, manifest := range manifests {
			record, err := index.PackageByManifestPath(manifest)
			if err != nil {
				return nil, err
			}
			resolved[record.ID] = struct{}{}
		}
	}
	if err := addExtraDependencies(index, tables, resolved, targets); err != nil {
		return nil, err
	}

	ids := sortedKeys(resolved)
	log.Ctx(ctx).Debug().Str("package", pkg).Int("dependencies", len(ids)).Msg("build plan resolved")
	return ids, nil
}

// addExtraDependencies injects the packages cargo cannot see: mobile
// support libraries for the requested targets and the curated extra
// edges of every resolved package.
func addExtraDependencies(index PackageIndex, tables policies.CurationTables, resolved map[string]struct{}, targets []string) error {
	extras := make(map[string]struct{})
	if targetsIncludeAndroid(targets) {
		extras["ext-jna"] = struct{}{}
		extras["ext-protobuf"] = struct{}{}
	}
	if targetsIncludeIOS(targets) {
		extras["ext-swift-protobuf"] = struct{}{}
	}
	for _, id := range sortedKeys(resolved) {
		record, err := index.PackageByID(id)
		if err != nil {
			return err
		}
		for _, extID := range tables.ExtraDependencies[record.Name] {
			extras[extID] = struct{}{}
		}
	}
	for id := range extras {
		if _, err := index.PackageByID(id); err != nil {
			return err
		}
		resolved[id] = struct{}{}
	}
	return nil
}

// An empty target list means the build covers every platform.
func targetsIncludeAndroid(targets []string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, target := range targets {
		if strings.HasSuffix(target, "-android") || strings.HasSuffix(target, "-androideabi") {
			return true
		}
	}
	return false
}

func targetsIncludeIOS(targets []string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, target := range targets {
		if strings.HasSuffix(target, "-ios") {
			return true
		}
	}
	return false
}
