package entities

// PackageMeta is the manifest metadata of one concrete, resolvable
// package version. Root points at the unpacked package directory and is
// used for changelog reads.
type PackageMeta struct {
	Name           string
	Version        string
	License        string
	LicenseFile    string
	Authors        []string
	HasBuildScript bool
	ProcMacro      bool
	Root           string
}
