package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"license-summary/internal/core"
	"license-summary/internal/policies"
	"license-summary/internal/ports"
	"license-summary/internal/types"
)

// Report generates the license summary for the workspace, or for the
// build of one package on the given targets. Depending on the request
// it prints, writes, or compares against a checked-in snapshot.
func (s Service) Report(ctx context.Context, req ReportRequest) (ReportResult, error) {
	pkg := strings.TrimSpace(req.Package)
	if pkg == "" && len(req.Targets) > 0 {
		return ReportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("targets can only be given together with a package")
	}
	format := req.Format
	if format == "" {
		format = types.ReportFormatMarkdown
	}
	if format != types.ReportFormatMarkdown && format != types.ReportFormatJSON {
		return ReportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown report format %s", format))
	}
	checkPath := strings.TrimSpace(req.CheckPath)
	outputPath := strings.TrimSpace(req.OutputPath)
	if checkPath != "" && outputPath != "" {
		return ReportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("check and output cannot be combined")
	}

	index, tables, cargo, err := s.buildIndex(ctx, req.OverridesPath, req.Workspace, req.CargoBin, req.CargoToolchain)
	if err != nil {
		return ReportResult{}, err
	}
	resolver := core.NewDependencyResolver(cargo)
	ids, err := resolver.Resolve(ctx, index, tables, pkg, req.Targets)
	if err != nil {
		return ReportResult{}, err
	}
	infos, err := s.collectLicenses(ctx, index, ids)
	if err != nil {
		return ReportResult{}, err
	}

	builder := core.NewReportBuilder()
	result := ReportResult{Dependencies: len(infos)}
	if format == types.ReportFormatJSON {
		result.Output, err = builder.RenderJSON(infos)
	} else {
		groups := builder.GroupByLicense(ctx, infos)
		result.Groups = len(groups)
		result.Output, err = builder.RenderMarkdown(ctx, groups)
	}
	if err != nil {
		return ReportResult{}, err
	}

	if checkPath != "" {
		if s.Snapshot == nil {
			return ReportResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("service requires the snapshot port")
		}
		snapshot, err := s.Snapshot.ReadSnapshot(checkPath)
		if err != nil {
			return ReportResult{}, err
		}
		if snapshot != result.Output {
			return ReportResult{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("report drift: dependency details no longer match %s", checkPath))
		}
		return result, nil
	}
	if outputPath != "" {
		if s.Sink == nil {
			return ReportResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("service requires the report sink port")
		}
		if err := s.Sink.WriteReport(outputPath, result.Output); err != nil {
			return ReportResult{}, err
		}
	}
	return result, nil
}

// buildIndex loads curation tables, applies any overrides file, runs
// cargo metadata and folds both into the package index.
func (s Service) buildIndex(ctx context.Context, overridesPath string, workspace string, bin string, toolchain string) (core.PackageIndex, policies.CurationTables, ports.CargoPort, error) {
	tables := policies.DefaultCurationTables()
	if path := strings.TrimSpace(overridesPath); path != "" {
		if s.Overrides == nil {
			return core.PackageIndex{}, policies.CurationTables{}, nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("service requires the overrides port")
		}
		overrides, err := s.Overrides.LoadOverrides(path)
		if err != nil {
			return core.PackageIndex{}, policies.CurationTables{}, nil, err
		}
		tables, err = tables.WithOverrides(overrides)
		if err != nil {
			return core.PackageIndex{}, policies.CurationTables{}, nil, err
		}
	}
	if s.Cargo == nil {
		return core.PackageIndex{}, policies.CurationTables{}, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("service requires the cargo port")
	}
	cargo := s.Cargo(strings.TrimSpace(bin), strings.TrimSpace(toolchain), strings.TrimSpace(workspace))
	raw, err := cargo.WorkspaceMetadata(ctx)
	if err != nil {
		return core.PackageIndex{}, policies.CurationTables{}, nil, err
	}
	index, err := core.BuildPackageIndex(ctx, raw, tables)
	if err != nil {
		return core.PackageIndex{}, policies.CurationTables{}, nil, err
	}
	return index, tables, cargo, nil
}

// collectLicenses keeps the external dependencies among ids and pairs
// each with its chosen license and license text.
func (s Service) collectLicenses(ctx context.Context, index core.PackageIndex, ids []string) ([]types.LicenseInfo, error) {
	texts := core.NewLicenseTextResolver(s.Fetcher, s.Files)
	var infos []types.LicenseInfo
	for _, id := range ids {
		external, err := index.IsExternalDependency(id)
		if err != nil {
			return nil, err
		}
		if !external {
			continue
		}
		record, err := index.PackageByID(id)
		if err != nil {
			return nil, err
		}
		license, err := core.PickLicense(id, record.License)
		if err != nil {
			return nil, err
		}
		text, err := texts.ResolveText(ctx, record, license)
		if err != nil {
			return nil, err
		}
		infos = append(infos, types.LicenseInfo{
			Name:        record.Name,
			Repository:  record.Repository,
			License:     license,
			LicenseText: text,
		})
	}
	return infos, nil
}
