package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"license-summary/internal/policies"
)

// Cargo license declarations separate alternatives with "/" or the
// SPDX "OR" operator.
var licenseChoicePattern = regexp.MustCompile(`\s*(?:/|\sOR\s)\s*`)

// PickLicense chooses the license to redistribute a package under from
// its declared license expression, following the preference order. The
// OpenSSL license is only ever accepted for the openssl package itself.
func PickLicense(id string, declared string) (string, error) {
	choices := make(map[string]struct{})
	for _, part := range licenseChoicePattern.Split(declared, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			choices[part] = struct{}{}
		}
	}
	for _, preferred := range policies.LicensePreferenceOrder {
		if _, ok := choices[preferred]; ok {
			return preferred, nil
		}
	}
	if _, ok := choices["OpenSSL"]; ok && id == "ext-openssl" {
		return "OpenSSL", nil
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("package %s has no acceptable license: %q", id, declared))
}
