package app

import "license-summary/internal/types"

type ReportRequest struct {
	Package        string
	Targets        []string
	Format         types.ReportFormat
	CheckPath      string
	OutputPath     string
	OverridesPath  string
	Workspace      string
	CargoBin       string
	CargoToolchain string
}

type ReportResult struct {
	Output       string
	Dependencies int
	Groups       int
}

type ValidateRequest struct {
	OverridesPath  string
	Workspace      string
	CargoBin       string
	CargoToolchain string
}

type ValidateResult struct {
	Packages int
	External int
	Licenses map[string]int
}
