package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"license-summary/internal/policies"
	"license-summary/internal/shared"
	"license-summary/internal/types"
)

// LicenseGroup is one section of the rendered report: every dependency
// that shares a license text, or that shares a license known to have a
// canonical text.
type LicenseGroup struct {
	// Key is the license id for shared-text licenses, otherwise the
	// license id joined with a digest of the whitespace-collapsed text.
	Key     string
	License string
	// Members sorted by package name.
	Members []types.LicenseInfo
}

// ReportBuilder turns resolved license entries into the rendered
// report formats.
type ReportBuilder struct{}

func NewReportBuilder() ReportBuilder {
	return ReportBuilder{}
}

// GroupByLicense groups dependencies that can share a report section
// and orders the sections by license preference, then by the names of
// the member packages. The ordering is stable across runs so reports
// can be checked into version control.
func (b ReportBuilder) GroupByLicense(ctx context.Context, infos []types.LicenseInfo) []LicenseGroup {
	byKey := make(map[string][]types.LicenseInfo)
	for _, info := range infos {
		key := groupKey(info)
		byKey[key] = append(byKey[key], info)
	}
	groups := make([]LicenseGroup, 0, len(byKey))
	for _, key := range sortedKeys(byKey) {
		members := byKey[key]
		sort.Slice(members, func(i, j int) bool {
			return members[i].Name < members[j].Name
		})
		groups = append(groups, LicenseGroup{
			Key:     key,
			License: strings.SplitN(key, ":", 2)[0],
			Members: members,
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ri, rj := policies.LicenseRank(groups[i].License), policies.LicenseRank(groups[j].License)
		if ri != rj {
			return ri < rj
		}
		return lessNameLists(memberNames(groups[i]), memberNames(groups[j]))
	})
	log.Ctx(ctx).Debug().Int("groups", len(groups)).Int("dependencies", len(infos)).Msg("license groups built")
	return groups
}

func groupKey(info types.LicenseInfo) string {
	if policies.IsSharedTextLicense(info.License) {
		// Canonical texts differ only in punctuation details between
		// packages, so one section per license id suffices.
		return info.License
	}
	// Other license texts carry per-package copyright notices that we
	// cannot dedupe, except on whitespace.
	sum := sha256.Sum256([]byte(shared.CollapseWhitespace(info.LicenseText)))
	return info.License + ":" + hex.EncodeToString(sum[:])
}

func memberNames(group LicenseGroup) []string {
	names := make([]string, 0, len(group.Members))
	for _, member := range group.Members {
		names = append(names, member.Name)
	}
	return names
}

func lessNameLists(a []string, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// RenderMarkdown produces the human-readable report: an intro, a table
// of contents, then one fenced license text per group.
func (b ReportBuilder) RenderMarkdown(ctx context.Context, groups []LicenseGroup) (string, error) {
	var buf strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&buf, format+"\n", args...)
	}

	line("# Licenses for Third-Party Dependencies")
	line("")
	line("Software packages built from this source code may incorporate code from a number of third-party dependencies.")
	line("These dependencies are available under a variety of free and open source licenses,")
	line("the details of which are reproduced below.")
	line("")
	for _, group := range groups {
		header := groupHeader(group)
		line("* [%s](#%s)", header, headerAnchor(header))
	}
	line("-------------")

	for _, group := range groups {
		text, err := groupLicenseText(group)
		if err != nil {
			return "", err
		}
		if strings.Contains(text, "```") {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("license text for %s contains a code fence", group.License))
		}
		line("## %s", groupHeader(group))
		line("")
		line("This license applies to code linked from the following dependencies: %s", strings.Join(memberLinks(group), ", "))
		line("")
		line("```")
		line("%s", text)
		line("```")
		line("-------------")
	}
	log.Ctx(ctx).Debug().Int("groups", len(groups)).Msg("markdown report rendered")
	return buf.String(), nil
}

// groupLicenseText picks the text printed for a section. For the
// Apache group we need a copy that still carries the "[yyyy]"
// copyright placeholder rather than someone's filled-in notice.
func groupLicenseText(group LicenseGroup) (string, error) {
	text := ""
	for _, member := range group.Members {
		text = member.LicenseText
		if group.Key != "Apache-2.0" || strings.Contains(text, "[yyyy]") {
			return text, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("could not find an Apache license text with the copyright placeholder")
}

// memberLinks renders one markdown link per member, deduped in case a
// dependency appears at multiple versions.
func memberLinks(group LicenseGroup) []string {
	links := make(map[string]struct{}, len(group.Members))
	for _, member := range group.Members {
		links[fmt.Sprintf("[%s](%s)", member.Name, member.Repository)] = struct{}{}
	}
	return sortedKeys(links)
}

func groupHeader(group LicenseGroup) string {
	switch group.Key {
	case "MPL-2.0":
		return "Mozilla Public License 2.0"
	case "Apache-2.0":
		return "Apache License 2.0"
	case "OpenSSL":
		return "OpenSSL License"
	}
	names := make(map[string]struct{}, len(group.Members))
	for _, member := range group.Members {
		names[member.Name] = struct{}{}
	}
	return fmt.Sprintf("%s License: %s", group.License, strings.Join(sortedKeys(names), ", "))
}

func headerAnchor(header string) string {
	anchor := strings.ToLower(header)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	for _, drop := range []string{".", ",", ":"} {
		anchor = strings.ReplaceAll(anchor, drop, "")
	}
	return anchor
}

// RenderJSON produces the machine-readable report: a flat list of
// entries sorted by name, license and text so the output is stable.
func (b ReportBuilder) RenderJSON(infos []types.LicenseInfo) (string, error) {
	ordered := append([]types.LicenseInfo(nil), infos...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		if ordered[i].License != ordered[j].License {
			return ordered[i].License < ordered[j].License
		}
		return ordered[i].LicenseText < ordered[j].LicenseText
	})
	if ordered == nil {
		ordered = []types.LicenseInfo{}
	}
	data, err := json.Marshal(ordered)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode license list").
			WithCause(err)
	}
	return string(data), nil
}
