package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"license-summary/internal/ports"
	"license-summary/internal/shared"
	"license-summary/internal/types"
)

// CargoAdapter shells out to cargo. Build plans need the nightly
// toolchain because --build-plan is still an unstable option.
type CargoAdapter struct {
	Bin       string
	Toolchain string
	Dir       string
}

func NewCargoAdapter(bin string, toolchain string, dir string) CargoAdapter {
	if strings.TrimSpace(bin) == "" {
		bin = "cargo"
	}
	if strings.TrimSpace(toolchain) == "" {
		toolchain = "nightly"
	}
	return CargoAdapter{Bin: bin, Toolchain: toolchain, Dir: dir}
}

func (a CargoAdapter) WorkspaceMetadata(ctx context.Context) (types.RawMetadata, error) {
	output, err := a.runCargo(ctx, "metadata", "--locked", "--format-version", "1")
	if err != nil {
		return types.RawMetadata{}, err
	}
	return decodeWorkspaceMetadata(output)
}

func (a CargoAdapter) BuildPlanInputs(ctx context.Context, pkg string, target string) ([]string, error) {
	if strings.TrimSpace(pkg) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("build plan requires a package name")
	}
	args := []string{"-Z", "unstable-options", "build", "--build-plan", "--quiet", "--locked", "--package", pkg}
	if target == "" {
		args = append(args, "--all-targets")
	} else {
		args = append(args, "--target", target)
	}
	output, err := a.runCargo(ctx, args...)
	if err != nil {
		return nil, err
	}
	return decodeBuildPlanInputs(output)
}

// runCargo executes cargo with the configured toolchain and returns
// stdout. Stderr is folded into the error so that cargo's own
// diagnostics survive.
func (a CargoAdapter) runCargo(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"+" + a.Toolchain}, args...)
	cmd := exec.CommandContext(ctx, a.Bin, full...)
	cmd.Dir = a.Dir
	log.Ctx(ctx).Debug().Str("bin", a.Bin).Strs("args", full).Msg("running cargo")
	output, err := cmd.Output()
	if err != nil {
		detail := err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail = shared.CommandError(exitErr.Stderr, err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("cargo command failed").
			WithCause(detail)
	}
	return output, nil
}

func decodeWorkspaceMetadata(data []byte) (types.RawMetadata, error) {
	var raw types.RawMetadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.RawMetadata{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse cargo metadata").
			WithCause(err)
	}
	if strings.TrimSpace(raw.WorkspaceRoot) == "" {
		return types.RawMetadata{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("cargo metadata has no workspace root")
	}
	return raw, nil
}

func decodeBuildPlanInputs(data []byte) ([]string, error) {
	var plan struct {
		Inputs []string `json:"inputs"`
	}
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse cargo build plan").
			WithCause(err)
	}
	return plan.Inputs, nil
}

var _ ports.CargoPort = CargoAdapter{}
