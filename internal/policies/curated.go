package policies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"license-summary/internal/types"
)

// Packages that get pulled into the dependency tree but are never built
// in practice, typically platform support for platforms we do not ship.
var builtinExcludedPackages = []string{
	"fuchsia-cprng",
	"fuchsia-zircon",
	"fuchsia-zircon-sys",
}

// Known metadata for extra packages that are not managed by cargo,
// keyed by a synthetic "ext-" id.
var builtinExtraPackages = map[string]types.PackageRecord{
	"ext-jna": {
		Name:        "jna",
		Repository:  "https://github.com/java-native-access/jna",
		License:     "Apache-2.0",
		LicenseFile: "https://raw.githubusercontent.com/java-native-access/jna/master/AL2.0",
	},
	"ext-protobuf": {
		Name:        "protobuf",
		Repository:  "https://github.com/protocolbuffers/protobuf",
		License:     "BSD-3-Clause",
		LicenseFile: "https://raw.githubusercontent.com/protocolbuffers/protobuf/master/LICENSE",
	},
	"ext-swift-protobuf": {
		Name:        "swift-protobuf",
		Repository:  "https://github.com/apple/swift-protobuf",
		License:     "Apache-2.0",
		LicenseFile: "https://raw.githubusercontent.com/apple/swift-protobuf/master/LICENSE.txt",
	},
	"ext-openssl": {
		Name:        "openssl",
		Repository:  "https://www.openssl.org/source/",
		License:     "OpenSSL",
		LicenseFile: "https://www.openssl.org/source/license-openssl-ssleay.txt",
	},
	"ext-sqlcipher": {
		Name:        "sqlcipher",
		Repository:  "https://github.com/sqlcipher/sqlcipher",
		License:     "BSD-3-Clause",
		LicenseFile: "https://raw.githubusercontent.com/sqlcipher/sqlcipher/master/LICENSE",
	},
}

// Packages whose builds link one of the extra packages above, keyed by
// package name. Mobile targets add further entries during resolution.
var builtinExtraDependencies = map[string][]string{
	"openssl-sys": {"ext-openssl"},
	"ring":        {"ext-openssl"},
	// The "logins" crate is the only thing that enables SQLCipher. A
	// future iteration could inspect the build plan for the sqlcipher
	// feature instead of hardcoding this.
	"logins": {"ext-sqlcipher"},
}

// Hand-audited tweaks to package metadata, for cases where the data
// cargo gives us is insufficient. Each entry records both the expected
// upstream value and the replacement, so that an upstream metadata
// change invalidates the fixup loudly instead of being overwritten.
var builtinFixups = map[string]types.PackageFixup{
	// Ring describes its license as "ISC-style"; reviewed manually.
	"ring": {
		License: fixField("", "ISC"),
	},
	// Packages that forgot to declare their license file.
	"adler32": {
		License:     fixField("BSD-3-Clause AND Zlib", "BSD-3-Clause"),
		LicenseFile: fixField("", "LICENSE"),
	},
	"publicsuffix": {
		License:     checkField("MIT/Apache-2.0"),
		LicenseFile: fixField("", "LICENSE-APACHE"),
	},
	"siphasher": {
		License:     checkField("MIT/Apache-2.0"),
		LicenseFile: fixField("", "COPYING"),
	},
	// Packages that do not include their license file in the published
	// crate; we link the copy in their source repository instead.
	"argon2rs": {
		Repository:  checkField("https://github.com/bryant/argon2rs"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/bryant/argon2rs/master/LICENSE"),
	},
	"cloudabi": {
		Repository:  checkField("https://github.com/nuxinl/cloudabi"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/nuxinl/cloudabi/master/LICENSE"),
	},
	"failure_derive": {
		Repository:  checkField("https://github.com/withoutboats/failure_derive"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/withoutboats/failure_derive/master/LICENSE-APACHE"),
	},
	"hawk": {
		Repository:  checkField("https://github.com/taskcluster/rust-hawk"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/taskcluster/rust-hawk/master/LICENSE"),
	},
	"kernel32-sys": {
		Repository:  checkField("https://github.com/retep998/winapi-rs"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/retep998/winapi-rs/master/LICENSE-APACHE"),
	},
	"libsqlite3-sys": {
		Repository:  checkField("https://github.com/jgallagher/rusqlite"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/jgallagher/rusqlite/master/LICENSE"),
	},
	"mockiato-codegen": {
		Repository:  checkField("https://github.com/myelin-ai/mockiato"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/myelin-ai/mockiato/master/license.txt"),
	},
	"phf": {
		Repository:  checkField("https://github.com/sfackler/rust-phf"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/sfackler/rust-phf/master/LICENSE"),
	},
	"phf_codegen": {
		Repository:  checkField("https://github.com/sfackler/rust-phf"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/sfackler/rust-phf/master/LICENSE"),
	},
	"phf_generator": {
		Repository:  checkField("https://github.com/sfackler/rust-phf"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/sfackler/rust-phf/master/LICENSE"),
	},
	"phf_shared": {
		Repository:  checkField("https://github.com/sfackler/rust-phf"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/sfackler/rust-phf/master/LICENSE"),
	},
	"prost-build": {
		Repository:  checkField("https://github.com/danburkert/prost"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/danburkert/prost/master/LICENSE"),
	},
	"prost-derive": {
		Repository:  checkField("https://github.com/danburkert/prost"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/danburkert/prost/master/LICENSE"),
	},
	"prost-types": {
		Repository:  checkField("https://github.com/danburkert/prost"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/danburkert/prost/master/LICENSE"),
	},
	"rgb": {
		Repository:  checkField("https://github.com/kornelski/rust-rgb"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/kornelski/rust-rgb/master/LICENSE"),
	},
	"security-framework": {
		Repository:  checkField("https://github.com/kornelski/rust-security-framework"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/kornelski/rust-security-framework/master/LICENSE-APACHE"),
	},
	"security-framework-sys": {
		Repository:  checkField("https://github.com/kornelski/rust-security-framework"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/kornelski/rust-security-framework/master/LICENSE-APACHE"),
	},
	"url_serde": {
		Repository:  checkField("https://github.com/servo/rust-url"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/servo/rust-url/master/LICENSE-APACHE"),
	},
	"vcpkg": {
		Repository:  checkField("https://github.com/mcgoo/vcpkg-rs"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/mcgoo/vcpkg-rs/master/LICENSE-APACHE"),
	},
	"void": {
		Repository:  checkField("https://github.com/reem/rust-void.git"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/reem/rust-void/master/LICENSE-APACHE"),
	},
	"winapi-build": {
		Repository:  checkField("https://github.com/retep998/winapi-rs"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/retep998/winapi-rs/master/LICENSE-APACHE"),
	},
	"winapi-i686-pc-windows-gnu": {
		Repository:  checkField("https://github.com/retep998/winapi-rs"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/retep998/winapi-rs/master/LICENSE-APACHE"),
	},
	"winapi-x86_64-pc-windows-gnu": {
		Repository:  checkField("https://github.com/retep998/winapi-rs"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/retep998/winapi-rs/master/LICENSE-APACHE"),
	},
	"ws2_32-sys": {
		Repository:  checkField("https://github.com/retep998/winapi-rs"),
		LicenseFile: fixField("", "https://raw.githubusercontent.com/retep998/winapi-rs/master/LICENSE-APACHE"),
	},
	// Packages with no license file at all, not even in the repo.
	"clicolors-control": {
		License:     checkField("MIT"),
		LicenseText: fixField("", "No license text provided"),
	},
	"constant_time_eq": {
		License:     checkField("CC0-1.0"),
		LicenseText: fixField("", "No license text provided"),
	},
	"ctor": {
		License:     fixField("Apache-2.0 OR MIT", "Apache-2.0"),
		LicenseText: fixField("", "No license text provided"),
	},
	"find-places-db": {
		License:     fixField("MIT/Apache-2.0", "Apache-2.0"),
		LicenseText: fixField("", "No license text provided"),
	},
	"more-asserts": {
		License:     checkField("CC0-1.0"),
		LicenseText: fixField("", "No license text provided"),
	},
}

func fixField(check string, value string) *types.FieldFixup {
	return &types.FieldFixup{Check: check, Fixup: value}
}

func checkField(check string) *types.FieldFixup {
	return &types.FieldFixup{Check: check}
}

// CurationTables bundle the curation data applied on top of cargo
// metadata: packages to drop, packages to add, extra dependency edges
// and metadata fixups.
type CurationTables struct {
	Exclude           map[string]struct{}
	ExtraPackages     map[string]types.PackageRecord
	ExtraDependencies map[string][]string
	Fixups            map[string]types.PackageFixup
}

// DefaultCurationTables returns a fresh copy of the built-in tables.
func DefaultCurationTables() CurationTables {
	tables := CurationTables{
		Exclude:           make(map[string]struct{}, len(builtinExcludedPackages)),
		ExtraPackages:     make(map[string]types.PackageRecord, len(builtinExtraPackages)),
		ExtraDependencies: make(map[string][]string, len(builtinExtraDependencies)),
		Fixups:            make(map[string]types.PackageFixup, len(builtinFixups)),
	}
	for _, name := range builtinExcludedPackages {
		tables.Exclude[name] = struct{}{}
	}
	for id, record := range builtinExtraPackages {
		record.ID = id
		record.Origin = types.OriginExtra
		tables.ExtraPackages[id] = record
	}
	for name, ids := range builtinExtraDependencies {
		tables.ExtraDependencies[name] = append([]string(nil), ids...)
	}
	for name, fixup := range builtinFixups {
		tables.Fixups[name] = fixup
	}
	return tables
}

// WithOverrides returns a copy of the tables with the entries of an
// overrides document merged in. Exclusions, extra packages and extra
// dependency edges are additive; a fixup for a package that already has
// one replaces the built-in entry wholesale.
func (t CurationTables) WithOverrides(overrides types.OverridesFile) (CurationTables, error) {
	merged := CurationTables{
		Exclude:           make(map[string]struct{}, len(t.Exclude)+len(overrides.Exclude)),
		ExtraPackages:     make(map[string]types.PackageRecord, len(t.ExtraPackages)+len(overrides.ExtraPackages)),
		ExtraDependencies: make(map[string][]string, len(t.ExtraDependencies)+len(overrides.ExtraDependencies)),
		Fixups:            make(map[string]types.PackageFixup, len(t.Fixups)+len(overrides.Fixups)),
	}
	for name := range t.Exclude {
		merged.Exclude[name] = struct{}{}
	}
	for id, record := range t.ExtraPackages {
		merged.ExtraPackages[id] = record
	}
	for name, ids := range t.ExtraDependencies {
		merged.ExtraDependencies[name] = append([]string(nil), ids...)
	}
	for name, fixup := range t.Fixups {
		merged.Fixups[name] = fixup
	}

	for _, name := range overrides.Exclude {
		name = strings.TrimSpace(name)
		if name == "" {
			return CurationTables{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("overrides exclude list contains an empty name")
		}
		merged.Exclude[name] = struct{}{}
	}
	for _, id := range sortedKeys(overrides.ExtraPackages) {
		extra := overrides.ExtraPackages[id]
		if !strings.HasPrefix(id, "ext-") {
			return CurationTables{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("extra package id %s must start with ext-", id))
		}
		if strings.TrimSpace(extra.Name) == "" {
			return CurationTables{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("extra package %s has no name", id))
		}
		if strings.TrimSpace(extra.License) == "" {
			return CurationTables{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("extra package %s has no license", id))
		}
		if _, exists := merged.ExtraPackages[id]; exists {
			return CurationTables{}, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("extra package %s is already defined", id))
		}
		merged.ExtraPackages[id] = types.PackageRecord{
			ID:          id,
			Name:        extra.Name,
			License:     extra.License,
			LicenseFile: extra.LicenseFile,
			LicenseText: extra.LicenseText,
			Repository:  extra.Repository,
			Origin:      types.OriginExtra,
		}
	}
	for name, ids := range overrides.ExtraDependencies {
		merged.ExtraDependencies[name] = append(merged.ExtraDependencies[name], ids...)
	}
	for _, name := range sortedKeys(overrides.Fixups) {
		fixup := overrides.Fixups[name]
		if fixup.License == nil && fixup.LicenseFile == nil && fixup.LicenseText == nil && fixup.Repository == nil {
			return CurationTables{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("fixup for %s sets no fields", name))
		}
		merged.Fixups[name] = fixup
	}

	// Every dependency edge must point at a defined extra package.
	for _, name := range sortedKeys(merged.ExtraDependencies) {
		for _, id := range merged.ExtraDependencies[name] {
			if _, ok := merged.ExtraPackages[id]; !ok {
				return CurationTables{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("extra dependency %s of %s is not a defined extra package", id, name))
			}
		}
	}
	return merged, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
