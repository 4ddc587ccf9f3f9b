package repositories

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"drone-delivery-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// ClockValue decodes a time of day written either as "HH:MM" or as minutes
// since midnight. It always encodes as "HH:MM".
type ClockValue domain.TimeOfDay

func (c *ClockValue) set(raw string, isInt bool) error {
	if isInt {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("clock value %q: %w", raw, domain.ErrInvalidTime)
		}
		t, err := domain.TimeOfDayFromMinutes(n)
		if err != nil {
			return err
		}
		*c = ClockValue(t)
		return nil
	}
	t, err := domain.ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*c = ClockValue(t)
	return nil
}

func (c *ClockValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("clock value: line %d: expected scalar", node.Line)
	}
	return c.set(node.Value, node.ShortTag() == "!!int")
}

func (c ClockValue) MarshalYAML() (any, error) {
	return domain.TimeOfDay(c).String(), nil
}

func (c *ClockValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("clock value: %w", err)
		}
		return c.set(s, false)
	}
	return c.set(string(data), true)
}

func (c ClockValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(domain.TimeOfDay(c).String())
}

type DroneRecord struct {
	ID               int       `yaml:"id" json:"id"`
	MaxWeight        float64   `yaml:"max_weight" json:"max_weight"`
	Battery          float64   `yaml:"battery" json:"battery"`
	RemainingBattery *float64  `yaml:"remaining_battery,omitempty" json:"remaining_battery,omitempty"`
	Speed            float64   `yaml:"speed" json:"speed"`
	StartPos         []float64 `yaml:"start_pos,flow" json:"start_pos"`
	Active           *bool     `yaml:"active,omitempty" json:"active,omitempty"` // absent means active
}

type DeliveryRecord struct {
	ID              int          `yaml:"id" json:"id"`
	Pos             []float64    `yaml:"pos,flow" json:"pos"`
	Weight          float64      `yaml:"weight" json:"weight"`
	Priority        int          `yaml:"priority" json:"priority"`
	TimeWindow      []ClockValue `yaml:"time_window,flow" json:"time_window"`
	AssignedDroneID *int         `yaml:"assigned_drone_id,omitempty" json:"assigned_drone_id,omitempty"`
	Delivered       bool         `yaml:"delivered,omitempty" json:"delivered,omitempty"`
}

type ZoneRecord struct {
	ID          int          `yaml:"id" json:"id"`
	Coordinates [][]float64  `yaml:"coordinates" json:"coordinates"`
	ActiveTime  []ClockValue `yaml:"active_time,flow,omitempty" json:"active_time,omitempty"`
}

// ScenarioFile is the on-disk scenario format shared by YAML and JSON files.
type ScenarioFile struct {
	Name        string           `yaml:"name" json:"name"`
	CurrentTime *ClockValue      `yaml:"current_time" json:"current_time"`
	Drones      []DroneRecord    `yaml:"drones" json:"drones"`
	Deliveries  []DeliveryRecord `yaml:"deliveries" json:"deliveries"`
	NoFlyZones  []ZoneRecord     `yaml:"no_fly_zones" json:"no_fly_zones"`
}

func window(vals []ClockValue, allDay bool) (domain.Window, error) {
	if len(vals) == 0 && allDay {
		return domain.Window{Start: 0, End: domain.TimeOfDay(24*60 - 1)}, nil
	}
	if len(vals) != 2 {
		return domain.Window{}, fmt.Errorf("window: expected [start, end], got %d values", len(vals))
	}
	return domain.Window{Start: domain.TimeOfDay(vals[0]), End: domain.TimeOfDay(vals[1])}, nil
}

// ToScenario converts and validates the file contents. current_time is
// required; zones without an active_time are active all day. Errors wrap
// domain.ErrInvalidScenario.
func (f *ScenarioFile) ToScenario() (*domain.Scenario, error) {
	s, err := f.toScenario()
	if err != nil && !errors.Is(err, domain.ErrInvalidScenario) {
		err = fmt.Errorf("%w: %w", domain.ErrInvalidScenario, err)
	}
	return s, err
}

func (f *ScenarioFile) toScenario() (*domain.Scenario, error) {
	if f.CurrentTime == nil {
		return nil, errors.New("scenario file: current_time is required")
	}
	s := &domain.Scenario{Name: strings.TrimSpace(f.Name), CurrentTime: domain.TimeOfDay(*f.CurrentTime)}

	for i, r := range f.Drones {
		pos, err := domain.PositionFromList(r.StartPos)
		if err != nil {
			return nil, fmt.Errorf("scenario file: drone at index %d: %w", i, err)
		}
		d := domain.NewDrone(r.ID, r.MaxWeight, r.Battery, r.Speed, pos)
		if r.RemainingBattery != nil {
			d.RemainingBattery = *r.RemainingBattery
		}
		if r.Active != nil {
			d.Active = *r.Active
		}
		s.Drones = append(s.Drones, d)
	}

	for i, r := range f.Deliveries {
		pos, err := domain.PositionFromList(r.Pos)
		if err != nil {
			return nil, fmt.Errorf("scenario file: delivery at index %d: %w", i, err)
		}
		w, err := window(r.TimeWindow, false)
		if err != nil {
			return nil, fmt.Errorf("scenario file: delivery %d: %w", r.ID, err)
		}
		s.Deliveries = append(s.Deliveries, &domain.Delivery{
			ID:              r.ID,
			Pos:             pos,
			Weight:          r.Weight,
			Priority:        r.Priority,
			Window:          w,
			AssignedDroneID: r.AssignedDroneID,
			Delivered:       r.Delivered,
		})
	}

	for _, r := range f.NoFlyZones {
		z := &domain.NoFlyZone{ID: r.ID}
		for j, xy := range r.Coordinates {
			p, err := domain.PositionFromList(xy)
			if err != nil {
				return nil, fmt.Errorf("scenario file: zone %d vertex %d: %w", r.ID, j, err)
			}
			z.Polygon = append(z.Polygon, p)
		}
		w, err := window(r.ActiveTime, true)
		if err != nil {
			return nil, fmt.Errorf("scenario file: zone %d: %w", r.ID, err)
		}
		z.Active = w
		s.Zones = append(s.Zones, z)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario file: %w", err)
	}
	return s, nil
}

// NewScenarioFile is the inverse of ToScenario.
func NewScenarioFile(s *domain.Scenario) *ScenarioFile {
	now := ClockValue(s.CurrentTime)
	f := &ScenarioFile{Name: s.Name, CurrentTime: &now}
	for _, d := range s.Drones {
		rec := DroneRecord{ID: d.ID, MaxWeight: d.MaxWeight, Battery: d.Battery, Speed: d.Speed, StartPos: d.Start.ToList()}
		if d.RemainingBattery != d.Battery {
			rb := d.RemainingBattery
			rec.RemainingBattery = &rb
		}
		if !d.Active {
			inactive := false
			rec.Active = &inactive
		}
		f.Drones = append(f.Drones, rec)
	}
	for _, d := range s.Deliveries {
		f.Deliveries = append(f.Deliveries, DeliveryRecord{
			ID:              d.ID,
			Pos:             d.Pos.ToList(),
			Weight:          d.Weight,
			Priority:        d.Priority,
			TimeWindow:      []ClockValue{ClockValue(d.Window.Start), ClockValue(d.Window.End)},
			AssignedDroneID: d.AssignedDroneID,
			Delivered:       d.Delivered,
		})
	}
	for _, z := range s.Zones {
		rec := ZoneRecord{ID: z.ID, ActiveTime: []ClockValue{ClockValue(z.Active.Start), ClockValue(z.Active.End)}}
		for _, p := range z.Polygon {
			rec.Coordinates = append(rec.Coordinates, p.ToList())
		}
		f.NoFlyZones = append(f.NoFlyZones, rec)
	}
	return f
}

func isJSON(path string) bool { return strings.EqualFold(filepath.Ext(path), ".json") }

// ReadScenarioFile decodes a YAML or JSON scenario, chosen by extension.
// A file without a name takes its base name.
func ReadScenarioFile(path string) (*domain.Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: read %q: %w", path, err)
	}

	var f ScenarioFile
	if isJSON(path) {
		err = json.Unmarshal(raw, &f)
	} else {
		err = yaml.Unmarshal(raw, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("read scenario: parse %q: %w: %w", path, domain.ErrInvalidScenario, err)
	}
	if strings.TrimSpace(f.Name) == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := f.ToScenario()
	if err != nil {
		return nil, fmt.Errorf("read scenario %q: %w", path, err)
	}
	return s, nil
}

// WriteScenarioFile encodes s as YAML or JSON, chosen by extension.
func WriteScenarioFile(path string, s *domain.Scenario) error {
	f := NewScenarioFile(s)

	var (
		raw []byte
		err error
	)
	if isJSON(path) {
		raw, err = json.MarshalIndent(f, "", "  ")
	} else {
		raw, err = yaml.Marshal(f)
	}
	if err != nil {
		return fmt.Errorf("write scenario: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write scenario: mkdir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write scenario: write %q: %w", path, err)
	}
	return nil
}
