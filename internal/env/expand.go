// Package env expands environment references in configuration text.
package env

import (
	"os"
	"regexp"
)

var reference = regexp.MustCompile(`\$\{env\.([A-Za-z0-9_]*)\}`)

// Expand replaces every ${env.KEY} with the value of KEY, unset keys expand to "".
// Malformed references are kept as is.
func Expand(value string) string {
	return reference.ReplaceAllStringFunc(value, func(match string) string {
		key := reference.FindStringSubmatch(match)[1]
		return os.Getenv(key)
	})
}
