package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/lockdiff/internal/infrastructure/repositories/cargohome"
	"github.com/rios0rios0/lockdiff/internal/infrastructure/repositories/gitrev"
)

// RegisterProviders registers all infrastructure adapters with the DIG
// container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(gitrev.NewFactory); err != nil {
		return err
	}
	if err := container.Provide(cargohome.NewCargoPackageRepository); err != nil {
		return err
	}
	return nil
}
