package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"license-summary/internal/app"
	"license-summary/internal/policies"
	"license-summary/internal/types"
)

type reportOptions struct {
	Package        string
	Targets        []string
	AllAndroid     bool
	AllIOS         bool
	JSON           bool
	Check          string
	Output         string
	Overrides      string
	Workspace      string
	CargoBin       string
	CargoToolchain string
}

func newReportCommand() *cobra.Command {
	opts := reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the license report for third-party dependencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Package, "package", "p", "", "Only include dependencies of this package")
	cmd.Flags().StringSliceVar(&opts.Targets, "target", nil, "Target triple(s) to resolve for; requires --package")
	cmd.Flags().BoolVar(&opts.AllAndroid, "all-android-targets", false, "Add all Android target triples")
	cmd.Flags().BoolVar(&opts.AllIOS, "all-ios-targets", false, "Add all iOS target triples")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Emit a machine-readable JSON list")
	cmd.Flags().StringVar(&opts.Check, "check", "", "Compare the report against this snapshot instead of printing")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringVar(&opts.Overrides, "overrides", "", "Curation overrides file")
	cmd.Flags().StringVar(&opts.Workspace, "workspace", ".", "Cargo workspace directory")
	cmd.Flags().StringVar(&opts.CargoBin, "cargo-bin", "cargo", "Cargo binary")
	cmd.Flags().StringVar(&opts.CargoToolchain, "cargo-toolchain", "nightly", "Cargo toolchain")

	_ = viper.BindPFlag("package", cmd.Flags().Lookup("package"))
	_ = viper.BindPFlag("targets", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("all_android_targets", cmd.Flags().Lookup("all-android-targets"))
	_ = viper.BindPFlag("all_ios_targets", cmd.Flags().Lookup("all-ios-targets"))
	_ = viper.BindPFlag("json", cmd.Flags().Lookup("json"))
	_ = viper.BindPFlag("check", cmd.Flags().Lookup("check"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("overrides", cmd.Flags().Lookup("overrides"))
	_ = viper.BindPFlag("workspace", cmd.Flags().Lookup("workspace"))
	_ = viper.BindPFlag("cargo_bin", cmd.Flags().Lookup("cargo-bin"))
	_ = viper.BindPFlag("cargo_toolchain", cmd.Flags().Lookup("cargo-toolchain"))

	return cmd
}

func runReport(ctx context.Context, cmd *cobra.Command, opts reportOptions) error {
	targets := resolveStrings(cmd, opts.Targets, "targets", "target")
	if resolveBool(cmd, opts.AllAndroid, "all_android_targets", "all-android-targets") {
		targets = append(targets, policies.AndroidTargets...)
	}
	if resolveBool(cmd, opts.AllIOS, "all_ios_targets", "all-ios-targets") {
		targets = append(targets, policies.IOSTargets...)
	}
	format := types.ReportFormatMarkdown
	if resolveBool(cmd, opts.JSON, "json", "json") {
		format = types.ReportFormatJSON
	}
	checkPath := resolveString(cmd, opts.Check, "check", "check")
	outputPath := resolveString(cmd, opts.Output, "output", "output")

	service := newAppService()
	result, err := service.Report(ctx, app.ReportRequest{
		Package:        resolveString(cmd, opts.Package, "package", "package"),
		Targets:        targets,
		Format:         format,
		CheckPath:      checkPath,
		OutputPath:     outputPath,
		OverridesPath:  resolveString(cmd, opts.Overrides, "overrides", "overrides"),
		Workspace:      resolveString(cmd, opts.Workspace, "workspace", "workspace"),
		CargoBin:       resolveString(cmd, opts.CargoBin, "cargo_bin", "cargo-bin"),
		CargoToolchain: resolveString(cmd, opts.CargoToolchain, "cargo_toolchain", "cargo-toolchain"),
	})
	if err != nil {
		return err
	}
	switch {
	case checkPath != "":
		fmt.Printf("report matches %s\n", checkPath)
	case outputPath != "":
		fmt.Printf("report written: %s (%d dependencies)\n", outputPath, result.Dependencies)
	default:
		fmt.Print(result.Output)
	}
	return nil
}
