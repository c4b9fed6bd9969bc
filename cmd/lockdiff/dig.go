package main

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/lockdiff/internal"
	"github.com/rios0rios0/lockdiff/internal/infrastructure/controllers"
)

func injectDiffController() *controllers.DiffController {
	container := dig.New()

	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	var diffController *controllers.DiffController
	if err := container.Invoke(func(dc *controllers.DiffController) {
		diffController = dc
	}); err != nil {
		panic(err)
	}

	return diffController
}
