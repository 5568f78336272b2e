package datapack

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	namespaceRegex = regexp.MustCompile(`^[a-z0-9_.-]+$`)
	pathRegex      = regexp.MustCompile(`^[a-z0-9_.-]+(/[a-z0-9_.-]+)*$`)
)

var lower = cases.Lower(language.Und)

// normalize trims and lower-cases an identifier.
func normalize(s string) string {
	return lower.String(strings.TrimSpace(s))
}

// NamespaceName normalizes and validates a namespace identifier.
func NamespaceName(s string) (string, error) {
	n := normalize(s)
	if !namespaceRegex.MatchString(n) {
		return "", fmt.Errorf("%w: namespace %q", ErrInvalidName, s)
	}
	return n, nil
}

// PathName normalizes and validates a resource path such as a function
// name. Slashes separate folders.
func PathName(s string) (string, error) {
	n := normalize(s)
	if !pathRegex.MatchString(n) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return n, nil
}

// Title formats an identifier for display, e.g. "air_lock" becomes "Air Lock".
func Title(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}
