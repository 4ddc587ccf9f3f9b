package repositories

import (
	"math"
	"math/rand/v2"

	"drone-delivery-service/internal/domain"
)

// SyntheticOptions sizes a generated scenario.
type SyntheticOptions struct {
	Drones     int
	Deliveries int
	Zones      int
	Area       float64 // side of the square area in meters
	Seed       uint64
}

func DefaultSyntheticOptions() SyntheticOptions {
	return SyntheticOptions{Drones: 5, Deliveries: 10, Zones: 2, Area: 100, Seed: 1}
}

// GenerateScenario builds a random but valid scenario for demos and load
// tests. The same options always produce the same scenario.
func GenerateScenario(name string, opts SyntheticOptions) *domain.Scenario {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5851f42d4c957f2d))
	area := opts.Area
	if area <= 0 {
		area = 100
	}

	point := func() domain.Position {
		return domain.Position{X: round1(rng.Float64() * area), Y: round1(rng.Float64() * area)}
	}

	s := &domain.Scenario{Name: name, CurrentTime: domain.MustParseTimeOfDay("10:00")}

	for i := 1; i <= opts.Drones; i++ {
		s.Drones = append(s.Drones, domain.NewDrone(
			i,
			round1(2+rng.Float64()*8),     // 2-10 kg
			float64(4000+rng.IntN(8001)), // battery
			round1(5+rng.Float64()*10),    // 5-15 m/s
			point(),
		))
	}

	for i := 1; i <= opts.Deliveries; i++ {
		start := 8*60 + rng.IntN(4*60)
		s.Deliveries = append(s.Deliveries, &domain.Delivery{
			ID:       i,
			Pos:      point(),
			Weight:   round1(0.5 + rng.Float64()*6),
			Priority: 1 + rng.IntN(5),
			Window:   domain.Window{Start: domain.TimeOfDay(start), End: domain.TimeOfDay(start + 30 + rng.IntN(150))},
		})
	}

	for i := 1; i <= opts.Zones; i++ {
		c := point()
		r := area * (0.05 + rng.Float64()*0.05)
		start := 9*60 + rng.IntN(3*60)
		s.Zones = append(s.Zones, &domain.NoFlyZone{
			ID:      i,
			Polygon: square(c, r),
			Active:  domain.Window{Start: domain.TimeOfDay(start), End: domain.TimeOfDay(start + 60 + rng.IntN(120))},
		})
	}

	return s
}

func square(c domain.Position, r float64) []domain.Position {
	return []domain.Position{
		{X: round1(c.X - r), Y: round1(c.Y - r)},
		{X: round1(c.X + r), Y: round1(c.Y - r)},
		{X: round1(c.X + r), Y: round1(c.Y + r)},
		{X: round1(c.X - r), Y: round1(c.Y + r)},
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
