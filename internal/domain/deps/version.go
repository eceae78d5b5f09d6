package deps

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Parse splits "name@version" on the last '@' that is not the first
// character. A declaration without a version yields an empty version.
func Parse(decl string) (name, version string) {
	decl = strings.TrimSpace(decl)
	if i := strings.LastIndex(decl, "@"); i > 0 {
		return strings.TrimSpace(decl[:i]), strings.TrimSpace(decl[i+1:])
	}
	return decl, ""
}

// canonical converts a version constraint into a semver string
// ("^1.2" -> "v1.2"). ok is false when the result is not valid semver.
func canonical(version string) (string, bool) {
	v := strings.TrimSpace(version)
	for _, prefix := range []string{">=", "^", "~", "=", "v", "V"} {
		v = strings.TrimPrefix(v, prefix)
	}
	v = "v" + strings.TrimSpace(v)
	if !semver.IsValid(v) {
		return "", false
	}
	return v, true
}

// Compare orders two version constraints by their semver value.
// ok is false when either side does not parse.
func Compare(a, b string) (cmp int, ok bool) {
	ca, okA := canonical(a)
	cb, okB := canonical(b)
	if !okA || !okB {
		return 0, false
	}
	return semver.Compare(ca, cb), true
}

// SameMajor reports whether two parseable versions share a major version
func SameMajor(a, b string) bool {
	ca, okA := canonical(a)
	cb, okB := canonical(b)
	return okA && okB && semver.Major(ca) == semver.Major(cb)
}
