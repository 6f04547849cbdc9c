// Package shared provides common utility functions used across multiple
// packages in the license-summary codebase.
package shared

import (
	"fmt"
	"strings"
)

// CollapseWhitespace strips all whitespace from a string, leaving a
// stable form for comparing license texts that differ only in line
// wrapping or indentation.
func CollapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), "")
}

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, body)
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}
