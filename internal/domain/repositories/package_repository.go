package repositories

import (
	"context"
	"errors"

	"github.com/rios0rios0/lockdiff/internal/domain/entities"
)

// ErrUnresolvable is returned when a dependency record cannot be mapped
// to a concrete addressable package, e.g. local/workspace dependencies or
// packages missing from the registry cache. Callers treat it as
// non-fatal and skip enrichment for the affected operation.
var ErrUnresolvable = errors.New("dependency cannot be resolved to a concrete package")

// PackageRepository resolves a dependency record to its package metadata.
type PackageRepository interface {
	Resolve(ctx context.Context, record entities.DependencyRecord) (*entities.PackageMeta, error)
}
