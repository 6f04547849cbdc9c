package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"license-summary/internal/app"
)

type validateOptions struct {
	Overrides      string
	Workspace      string
	CargoBin       string
	CargoToolchain string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check curation tables against current cargo metadata",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Overrides, "overrides", "", "Curation overrides file")
	cmd.Flags().StringVar(&opts.Workspace, "workspace", ".", "Cargo workspace directory")
	cmd.Flags().StringVar(&opts.CargoBin, "cargo-bin", "cargo", "Cargo binary")
	cmd.Flags().StringVar(&opts.CargoToolchain, "cargo-toolchain", "nightly", "Cargo toolchain")
	_ = viper.BindPFlag("overrides", cmd.Flags().Lookup("overrides"))
	_ = viper.BindPFlag("workspace", cmd.Flags().Lookup("workspace"))
	_ = viper.BindPFlag("cargo_bin", cmd.Flags().Lookup("cargo-bin"))
	_ = viper.BindPFlag("cargo_toolchain", cmd.Flags().Lookup("cargo-toolchain"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		OverridesPath:  resolveString(cmd, opts.Overrides, "overrides", "overrides"),
		Workspace:      resolveString(cmd, opts.Workspace, "workspace", "workspace"),
		CargoBin:       resolveString(cmd, opts.CargoBin, "cargo_bin", "cargo-bin"),
		CargoToolchain: resolveString(cmd, opts.CargoToolchain, "cargo_toolchain", "cargo-toolchain"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("validated: %d external dependencies across %d packages\n", result.External, result.Packages)
	licenses := make([]string, 0, len(result.Licenses))
	for license := range result.Licenses {
		licenses = append(licenses, license)
	}
	sort.Strings(licenses)
	for _, license := range licenses {
		fmt.Printf("  %s: %d\n", license, result.Licenses[license])
	}
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
