package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/ports"
)

// MemoryScenarioRepository keeps scenarios in a map. Used by the CLI and
// as a stand-in for the SQL repository.
type MemoryScenarioRepository struct {
	mu        sync.RWMutex
	scenarios map[string]*domain.Scenario
}

var _ ports.ScenarioWriter = (*MemoryScenarioRepository)(nil)

func NewMemoryScenarioRepository(scenarios ...*domain.Scenario) *MemoryScenarioRepository {
	r := &MemoryScenarioRepository{scenarios: make(map[string]*domain.Scenario, len(scenarios))}
	for _, s := range scenarios {
		r.scenarios[s.Name] = s
	}
	return r
}

func (r *MemoryScenarioRepository) ListScenarios(context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (r *MemoryScenarioRepository) LoadScenario(_ context.Context, name string) (*domain.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("load scenario %q: %w", name, ports.ErrScenarioNotFound)
	}
	return s, nil
}

func (r *MemoryScenarioRepository) SaveScenario(_ context.Context, s *domain.Scenario) error {
	if s == nil {
		return errors.New("save scenario: scenario is nil")
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("save scenario: %w", err)
	}

	r.mu.Lock()
	r.scenarios[s.Name] = s
	r.mu.Unlock()
	return nil
}
