package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlScenario = `
name: ignored-by-repo
current_time: "10:00"
drones:
  - id: 1
    max_weight: 5
    battery: 12000
    speed: 10
    start_pos: [0, 0]
deliveries:
  - id: 1
    pos: [10, 0]
    weight: 2
    priority: 3
    time_window: [540, 720]
  - id: 2
    pos: [3, 4]
    weight: 1
    priority: 1
    time_window: ["22:00", "02:00"]
no_fly_zones:
  - id: 1
    coordinates: [[4, -1], [6, -1], [6, 1], [4, 1]]
`

const jsonScenario = `{
  "current_time": 600,
  "drones": [{"id": 1, "max_weight": 5, "battery": 100, "speed": 10, "start_pos": [0, 0]}],
  "deliveries": [{"id": 1, "pos": [1, 1], "weight": 1, "priority": 2, "time_window": ["09:00", "11:00"]}],
  "no_fly_zones": []
}`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestFileScenarioRepository(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "city.yaml", yamlScenario)
	writeFile(t, dir, "small.json", jsonScenario)
	writeFile(t, dir, "notes.txt", "ignored")

	repo := NewFileScenarioRepository(dir)
	ctx := context.Background()

	names, err := repo.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "small"}, names)

	city, err := repo.LoadScenario(ctx, "city")
	require.NoError(t, err)
	assert.Equal(t, "city", city.Name)
	assert.Equal(t, "10:00", city.CurrentTime.String())
	assert.Equal(t, "09:00-12:00", city.Deliveries[0].Window.String())
	assert.Equal(t, "22:00-02:00", city.Deliveries[1].Window.String())
	require.Len(t, city.Zones, 1)
	// zones without active_time are active all day
	assert.Equal(t, "00:00-23:59", city.Zones[0].Active.String())

	small, err := repo.LoadScenario(ctx, "small")
	require.NoError(t, err)
	assert.Equal(t, "10:00", small.CurrentTime.String())
	assert.Empty(t, small.Zones)
}

func TestFileScenarioRepositoryNotFound(t *testing.T) {
	repo := NewFileScenarioRepository(t.TempDir())
	for _, name := range []string{"missing", "../etc/passwd", ""} {
		_, err := repo.LoadScenario(context.Background(), name)
		assert.True(t, errors.Is(err, ports.ErrScenarioNotFound), "name %q: err = %v", name, err)
	}
}

func TestReadScenarioFileRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad-time.yaml":     "current_time: \"25:00\"\n",
		"bad-pos.yaml":      "current_time: \"10:00\"\ndrones:\n  - {id: 1, max_weight: 1, battery: 1, speed: 1, start_pos: [1]}\n",
		"bad-window.json":   `{"current_time": 600, "deliveries": [{"id": 1, "pos": [0, 0], "weight": 1, "priority": 1, "time_window": [600]}]}`,
		"missing-time.yaml": "drones:\n  - {id: 1, max_weight: 1, battery: 1, speed: 1, start_pos: [0, 0]}\n",
		"dup-drone.yaml":    "current_time: \"10:00\"\ndrones:\n  - {id: 1, max_weight: 1, battery: 1, speed: 1, start_pos: [0, 0]}\n  - {id: 1, max_weight: 1, battery: 1, speed: 1, start_pos: [1, 0]}\n",
		"flat-zone.yaml":    "current_time: \"10:00\"\nno_fly_zones:\n  - {id: 1, coordinates: [[0, 0], [1, 1], [2, 2]]}\n",
	}
	for name, body := range cases {
		writeFile(t, dir, name, body)
		_, err := ReadScenarioFile(filepath.Join(dir, name))
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, domain.ErrInvalidScenario), "%s: err = %v", name, err)
	}
}

func TestScenarioFileKeepsPlanState(t *testing.T) {
	s := sampleScenario()
	s.Drones[1].Active = false
	s.Drones[0].RemainingBattery = 4000
	s.Deliveries[1].Delivered = true

	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, WriteScenarioFile(path, s))

	got, err := ReadScenarioFile(path)
	require.NoError(t, err)
	assert.True(t, got.Drones[0].Active)
	assert.False(t, got.Drones[1].Active)
	assert.Equal(t, 4000.0, got.Drones[0].RemainingBattery)
	assert.False(t, got.Deliveries[0].Delivered)
	assert.True(t, got.Deliveries[1].Delivered)
	require.NotNil(t, got.Deliveries[1].AssignedDroneID)
	assert.Equal(t, 2, *got.Deliveries[1].AssignedDroneID)
}

func TestWriteScenarioFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := sampleScenario()

	for _, name := range []string{"out.yaml", "out.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteScenarioFile(path, s))

		got, err := ReadScenarioFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, s.Name, got.Name)
		assert.Equal(t, s.CurrentTime, got.CurrentTime)
		require.Len(t, got.Drones, 2)
		assert.Equal(t, s.Drones[0].Start, got.Drones[0].Start)
		assert.Equal(t, s.Deliveries[1].Window, got.Deliveries[1].Window)
		assert.Equal(t, s.Zones[0].Polygon, got.Zones[0].Polygon)
	}
}

func TestGenerateScenario(t *testing.T) {
	opts := DefaultSyntheticOptions()
	a := GenerateScenario("demo", opts)
	b := GenerateScenario("demo", opts)

	require.NoError(t, a.Validate())
	assert.Len(t, a.Drones, 5)
	assert.Len(t, a.Deliveries, 10)
	assert.Len(t, a.Zones, 2)
	assert.Equal(t, a.Deliveries[3].Pos, b.Deliveries[3].Pos)

	opts.Seed = 2
	c := GenerateScenario("demo", opts)
	assert.NotEqual(t, a.Drones[0].Start, c.Drones[0].Start)
}

func TestDemoSeedIsValid(t *testing.T) {
	s, err := ReadScenarioFile(filepath.Join("..", "..", "..", "data", "seeds", "demo.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Name)
	assert.Len(t, s.Drones, 5)
	assert.Len(t, s.Deliveries, 10)
	assert.Len(t, s.Zones, 2)
}
