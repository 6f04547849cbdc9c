package ports

import (
	"context"

	"license-summary/internal/types"
)

// CargoPort runs cargo against a workspace to learn which packages
// exist and which of them a build would actually compile.
type CargoPort interface {
	// WorkspaceMetadata loads the package graph for the whole workspace
	// as reported by `cargo metadata`.
	WorkspaceMetadata(ctx context.Context) (types.RawMetadata, error)

	// BuildPlanInputs returns the manifest paths cargo would feed into
	// a build of the named package. An empty target asks for the plan
	// across all targets of the host platform.
	BuildPlanInputs(ctx context.Context, pkg string, target string) ([]string, error)
}
