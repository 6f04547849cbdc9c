package types

type PackageOrigin string

const (
	OriginCargo PackageOrigin = "cargo"
	OriginExtra PackageOrigin = "extra"
)

type ReportFormat string

const (
	ReportFormatMarkdown ReportFormat = "markdown"
	ReportFormatJSON     ReportFormat = "json"
)
