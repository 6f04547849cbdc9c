package types

// LicenseInfo is one entry of the final report: a dependency, where it
// lives, the license it is used under and the text of that license.
type LicenseInfo struct {
	Name        string `json:"name"`
	Repository  string `json:"repository"`
	License     string `json:"license"`
	LicenseText string `json:"license_text"`
}
