package ports

import (
	"context"
	"errors"

	"drone-delivery-service/internal/domain"
)

var ErrScenarioNotFound = errors.New("scenario not found")

// Port: a boundary for retrieving planning scenarios from a data source.
type ScenarioRepository interface {
	// Retrieve the names of all stored scenarios, sorted.
	ListScenarios(ctx context.Context) ([]string, error)
	// Retrieve one scenario. Returns ErrScenarioNotFound when absent.
	LoadScenario(ctx context.Context, name string) (*domain.Scenario, error)
}

// Optional extension of ScenarioRepository for writable sources.
type ScenarioWriter interface {
	ScenarioRepository
	SaveScenario(ctx context.Context, s *domain.Scenario) error
}
