// Package stagehand wires the core subsystems into the services the CLI and
// embedding hosts consume.
package stagehand

import (
	"github.com/colonyops/stagehand/internal/core/config"
	"github.com/colonyops/stagehand/internal/host"
)

// App is the central entry point for all stagehand operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Plan  *PlanService
	Todos *TodoService

	Config *config.Config
	Host   host.Host
}

// NewApp constructs an App from explicit dependencies.
func NewApp(plan *PlanService, todos *TodoService, cfg *config.Config, h host.Host) *App {
	return &App{
		Plan:   plan,
		Todos:  todos,
		Config: cfg,
		Host:   h,
	}
}
