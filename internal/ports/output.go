package ports

type ReportSinkPort interface {
	WriteReport(path string, content string) error
}
