//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/swarmsim/internal/config"
)

func InitializeSimulation(cfg config.Config) (*Simulation, func(), error) {
	wire.Build(SimulationSet, wire.Struct(new(Simulation), "*"))
	return nil, nil, nil
}
