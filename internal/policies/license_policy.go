package policies

// LicensePreferenceOrder lists the licenses we can compatibly
// redistribute under, most preferred first. When a package offers a
// choice of licenses the earliest match wins.
var LicensePreferenceOrder = []string{
	"MPL-2.0",
	// Apache-2.0 ranks high for its patent grant and for having a
	// canonical text that projects rarely customize.
	"Apache-2.0",
	"MIT",
	"CC0-1.0",
	"ISC",
	"BSD-2-Clause",
	"BSD-3-Clause",
}

// sharedTextLicenses have a canonical text that every package is
// trusted to reproduce faithfully, so their report sections are keyed
// by license id alone rather than by a digest of the text.
var sharedTextLicenses = map[string]struct{}{
	"MPL-2.0":    {},
	"Apache-2.0": {},
	"OpenSSL":    {},
}

// AndroidTargets are the triples built for Android releases, excluding
// the ones only used for unit testing.
var AndroidTargets = []string{
	"armv7-linux-androideabi",
	"aarch64-linux-android",
	"i686-linux-android",
	"x86_64-linux-android",
}

// IOSTargets are the triples built for iOS releases.
var IOSTargets = []string{
	"x86_64-apple-ios",
	"aarch64-apple-ios",
}

// licenseFileNameRoots lists conventional license file basenames per
// license id. The empty key applies to every license.
var licenseFileNameRoots = map[string][]string{
	"":           {"license", "licence"},
	"Apache-2.0": {"license-apache", "licence-apache"},
	"MIT":        {"license-mit", "licence-mit"},
}

var licenseFileNameSuffixes = []string{"", ".md", ".txt"}

// LicenseRank returns the position of a license in the preference
// order. Licenses we accept but do not rank, such as OpenSSL, sort
// after every ranked license.
func LicenseRank(license string) int {
	for i, preferred := range LicensePreferenceOrder {
		if license == preferred {
			return i
		}
	}
	return len(LicensePreferenceOrder)
}

// IsSharedTextLicense reports whether packages under this license are
// grouped into a single report section regardless of the exact text
// they ship.
func IsSharedTextLicense(license string) bool {
	_, ok := sharedTextLicenses[license]
	return ok
}

// ConventionalLicenseFileNames returns the lowercased file names under
// which packages conventionally ship the text of the given license.
func ConventionalLicenseFileNames(license string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, suffix := range licenseFileNameSuffixes {
		for _, root := range licenseFileNameRoots[license] {
			names[root+suffix] = struct{}{}
		}
		for _, root := range licenseFileNameRoots[""] {
			names[root+suffix] = struct{}{}
		}
	}
	return names
}
