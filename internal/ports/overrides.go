package ports

import "license-summary/internal/types"

type OverridesPort interface {
	LoadOverrides(path string) (types.OverridesFile, error)
}
