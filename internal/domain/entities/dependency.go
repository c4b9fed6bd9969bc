package entities

import (
	"strings"

	"golang.org/x/mod/semver"
)

// DependencyRecord is one resolved dependency as recorded in a lockfile.
// An empty Source means a local/workspace dependency with no addressable
// origin.
type DependencyRecord struct {
	Name    string
	Version string
	Source  string // canonical source URL, e.g. a registry or git URL
}

// Compare orders records by name, then version, then source. Versions are
// compared in semver order; versions that are not valid semver fall back
// to plain string comparison so exotic lockfiles still sort
// deterministically.
func (r DependencyRecord) Compare(other DependencyRecord) int {
	if c := strings.Compare(r.Name, other.Name); c != 0 {
		return c
	}
	if c := compareVersions(r.Version, other.Version); c != 0 {
		return c
	}
	return strings.Compare(r.Source, other.Source)
}

// Equal reports full-record equality (name, version, and source).
func (r DependencyRecord) Equal(other DependencyRecord) bool {
	return r == other
}

func (r DependencyRecord) String() string {
	return r.Name + " " + r.Version
}

func compareVersions(a, b string) int {
	// x/mod/semver requires the "v" prefix; lockfile versions carry none.
	va, vb := "v"+a, "v"+b
	if semver.IsValid(va) && semver.IsValid(vb) {
		if c := semver.Compare(va, vb); c != 0 {
			return c
		}
		// semver.Compare ignores build metadata, but two records that
		// differ only in it are still distinct. Break the tie textually
		// so the total order stays consistent with Equal.
		return strings.Compare(a, b)
	}
	return strings.Compare(a, b)
}
