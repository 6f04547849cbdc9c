package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"license-summary/internal/ports"
	"license-summary/internal/types"
)

type OverridesFileAdapter struct{}

func NewOverridesFileAdapter() OverridesFileAdapter {
	return OverridesFileAdapter{}
}

func (a OverridesFileAdapter) LoadOverrides(path string) (types.OverridesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.OverridesFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("overrides file not found").
			WithCause(err)
	}
	var overrides types.OverridesFile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return types.OverridesFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse overrides yaml").
			WithCause(err)
	}
	return overrides, nil
}

var _ ports.OverridesPort = OverridesFileAdapter{}
