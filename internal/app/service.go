package app

import (
	"license-summary/internal/adapters"
	"license-summary/internal/ports"
)

type Service struct {
	// Cargo builds the port for a given binary, toolchain and
	// workspace directory, which only become known per request.
	Cargo     func(bin string, toolchain string, dir string) ports.CargoPort
	Fetcher   ports.RemoteFetchPort
	Files     ports.PackageFilesPort
	Overrides ports.OverridesPort
	Snapshot  ports.SnapshotPort
	Sink      ports.ReportSinkPort
}

func NewService() Service {
	return Service{
		Cargo: func(bin string, toolchain string, dir string) ports.CargoPort {
			return adapters.NewCargoAdapter(bin, toolchain, dir)
		},
		Fetcher:   adapters.NewRemoteFetchAdapter(0),
		Files:     adapters.NewPackageFilesAdapter(),
		Overrides: adapters.NewOverridesFileAdapter(),
		Snapshot:  adapters.NewSnapshotFileAdapter(),
		Sink:      adapters.NewReportWriterAdapter(),
	}
}
