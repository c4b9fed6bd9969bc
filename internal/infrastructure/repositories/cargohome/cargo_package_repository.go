// Package cargohome resolves dependency records against the local cargo
// registry cache ($CARGO_HOME/registry/src), reading each package's
// unpacked Cargo.toml manifest.
package cargohome

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/lockdiff/internal/domain/entities"
	"github.com/rios0rios0/lockdiff/internal/domain/repositories"
)

// CargoPackageRepository implements repositories.PackageRepository over
// the registry source cache on disk.
type CargoPackageRepository struct {
	srcDir string
}

// NewCargoPackageRepository resolves the cache location from CARGO_HOME,
// falling back to ~/.cargo.
func NewCargoPackageRepository() repositories.PackageRepository {
	home := os.Getenv("CARGO_HOME")
	if home == "" {
		if userHome, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(userHome, ".cargo")
		}
	}
	return &CargoPackageRepository{srcDir: filepath.Join(home, "registry", "src")}
}

// NewWithSourceDir builds a repository over an explicit registry src
// directory.
func NewWithSourceDir(srcDir string) repositories.PackageRepository {
	return &CargoPackageRepository{srcDir: srcDir}
}

// Resolve maps a record to its unpacked package in the registry cache.
// Records without a source (local/workspace dependencies) and packages
// missing from the cache yield ErrUnresolvable.
func (r *CargoPackageRepository) Resolve(
	_ context.Context,
	record entities.DependencyRecord,
) (*entities.PackageMeta, error) {
	if record.Source == "" {
		return nil, fmt.Errorf("%s has no source: %w", record, repositories.ErrUnresolvable)
	}

	root, err := r.packageRoot(record)
	if err != nil {
		return nil, err
	}

	m, err := readManifest(filepath.Join(root, "Cargo.toml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest for %s: %w", record, err)
	}

	return &entities.PackageMeta{
		Name:           record.Name,
		Version:        record.Version,
		License:        m.Package.License,
		LicenseFile:    m.Package.LicenseFile,
		Authors:        m.Package.Authors,
		HasBuildScript: hasBuildScript(m, root),
		ProcMacro:      m.Lib.ProcMacro || m.Lib.ProcMacroLegacy,
		Root:           root,
	}, nil
}

// packageRoot scans the registry index directories for <name>-<version>.
func (r *CargoPackageRepository) packageRoot(record entities.DependencyRecord) (string, error) {
	indexes, err := os.ReadDir(r.srcDir)
	if err != nil {
		return "", fmt.Errorf("registry cache %q is unreadable: %w", r.srcDir, repositories.ErrUnresolvable)
	}

	dirName := record.Name + "-" + record.Version
	for _, index := range indexes {
		if !index.IsDir() {
			continue
		}
		candidate := filepath.Join(r.srcDir, index.Name(), dirName)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return candidate, nil
		}
	}

	logger.Debugf("Package %s not present in registry cache %q", record, r.srcDir)
	return "", fmt.Errorf("%s not in registry cache: %w", record, repositories.ErrUnresolvable)
}

// --- Cargo.toml manifest ---

type manifest struct {
	Package manifestPackage `toml:"package"`
	Lib     manifestLib     `toml:"lib"`
}

type manifestPackage struct {
	License     string   `toml:"license"`
	LicenseFile string   `toml:"license-file"`
	Authors     []string `toml:"authors"`
	// Build is either a script path string or false to disable discovery.
	Build any `toml:"build"`
}

type manifestLib struct {
	ProcMacro       bool `toml:"proc-macro"`
	ProcMacroLegacy bool `toml:"proc_macro"`
}

func readManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m manifest
	if unmarshalErr := toml.Unmarshal(data, &m); unmarshalErr != nil {
		return nil, fmt.Errorf("invalid Cargo.toml: %w", unmarshalErr)
	}
	return &m, nil
}

// hasBuildScript mirrors cargo's discovery rules: an explicit "build"
// path wins, "build = false" disables, otherwise a build.rs next to
// Cargo.toml counts.
func hasBuildScript(m *manifest, root string) bool {
	switch build := m.Package.Build.(type) {
	case string:
		return build != ""
	case bool:
		return build
	}

	_, err := os.Stat(filepath.Join(root, "build.rs"))
	return err == nil
}
