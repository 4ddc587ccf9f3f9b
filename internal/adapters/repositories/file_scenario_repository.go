package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/ports"
)

var scenarioExts = []string{".yaml", ".yml", ".json"}

// FileScenarioRepository serves scenario files from one directory. The
// scenario name is the file name without extension.
type FileScenarioRepository struct {
	Dir string
}

var _ ports.ScenarioRepository = (*FileScenarioRepository)(nil)

func NewFileScenarioRepository(dir string) *FileScenarioRepository {
	return &FileScenarioRepository{Dir: dir}
}

func (r *FileScenarioRepository) ListScenarios(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: read dir %q: %w", r.Dir, err)
	}

	seen := map[string]struct{}{}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !slices.Contains(scenarioExts, ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (r *FileScenarioRepository) LoadScenario(ctx context.Context, name string) (*domain.Scenario, error) {
	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("load scenario %q: %w", name, ports.ErrScenarioNotFound)
	}

	for _, ext := range scenarioExts {
		path := filepath.Join(r.Dir, name+ext)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		s, err := ReadScenarioFile(path)
		if err != nil {
			return nil, err
		}
		s.Name = name
		return s, nil
	}

	return nil, fmt.Errorf("load scenario %q: %w", name, ports.ErrScenarioNotFound)
}
