package services

import (
	"errors"
	"testing"

	"drone-delivery-service/internal/domain"
)

func testDrone() *domain.Drone {
	return domain.NewDrone(1, 5, 100000, 10, domain.Position{X: 0, Y: 0})
}

func testDelivery() *domain.Delivery {
	return &domain.Delivery{
		ID:       1,
		Pos:      domain.Position{X: 10, Y: 0},
		Weight:   2,
		Priority: 3,
		Window:   domain.Window{Start: domain.MustParseTimeOfDay("08:00"), End: domain.MustParseTimeOfDay("12:00")},
	}
}

// blockingZone covers the segment (0,0)-(10,0) between 08:00 and 10:00.
func blockingZone() *domain.NoFlyZone {
	return &domain.NoFlyZone{
		ID:      7,
		Polygon: []domain.Position{{X: 4, Y: -1}, {X: 6, Y: -1}, {X: 6, Y: 1}, {X: 4, Y: 1}},
		Active:  domain.Window{Start: domain.MustParseTimeOfDay("08:00"), End: domain.MustParseTimeOfDay("10:00")},
	}
}

func mustChecker(t *testing.T, zones []*domain.NoFlyZone) *Checker {
	t.Helper()
	c, err := NewChecker(zones, 1)
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	return c
}

func TestCheckerFeasible(t *testing.T) {
	c := mustChecker(t, nil)
	d := c.Check(testDrone(), testDelivery(), domain.MustParseTimeOfDay("09:00"))

	if !d.Feasible {
		t.Fatalf("expected feasible, got %s", d)
	}
	if d.Distance != 10 || d.Energy != 10 {
		t.Fatalf("distance/energy = %g/%g, want 10/10", d.Distance, d.Energy)
	}
}

func TestCheckerConstraints(t *testing.T) {
	now := domain.MustParseTimeOfDay("09:00")

	tests := []struct {
		name   string
		zones  []*domain.NoFlyZone
		modify func(*domain.Drone, *domain.Delivery)
		now    domain.TimeOfDay
		want   Constraint
	}{
		{
			name:   "payload",
			modify: func(_ *domain.Drone, d *domain.Delivery) { d.Weight = 10 },
			now:    now,
			want:   ConstraintPayload,
		},
		{
			name:   "payload at capacity is allowed",
			modify: func(_ *domain.Drone, d *domain.Delivery) { d.Weight = 5 },
			now:    now,
			want:   ConstraintNone,
		},
		{
			name:  "active zone on the segment",
			zones: []*domain.NoFlyZone{blockingZone()},
			now:   now,
			want:  ConstraintNoFlyZone,
		},
		{
			name:  "zone outside its active window",
			zones: []*domain.NoFlyZone{blockingZone()},
			now:   domain.MustParseTimeOfDay("11:00"),
			want:  ConstraintNone,
		},
		{
			name: "before the delivery window",
			now:  domain.MustParseTimeOfDay("07:59"),
			want: ConstraintTimeWindow,
		},
		{
			name: "window end is inclusive",
			now:  domain.MustParseTimeOfDay("12:00"),
			want: ConstraintNone,
		},
		{
			name:   "energy",
			modify: func(dr *domain.Drone, _ *domain.Delivery) { dr.RemainingBattery = 9.5 },
			now:    now,
			want:   ConstraintEnergy,
		},
		{
			name:   "exact energy is enough",
			modify: func(dr *domain.Drone, _ *domain.Delivery) { dr.RemainingBattery = 10 },
			now:    now,
			want:   ConstraintNone,
		},
		{
			name:   "payload is checked before zones",
			zones:  []*domain.NoFlyZone{blockingZone()},
			modify: func(_ *domain.Drone, d *domain.Delivery) { d.Weight = 10 },
			now:    now,
			want:   ConstraintPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drone, delivery := testDrone(), testDelivery()
			if tt.modify != nil {
				tt.modify(drone, delivery)
			}
			d := mustChecker(t, tt.zones).Check(drone, delivery, tt.now)

			if d.Failed != tt.want {
				t.Fatalf("failed = %s, want %s (%s)", d.Failed, tt.want, d)
			}
			if d.Feasible != (tt.want == ConstraintNone) {
				t.Fatalf("feasible = %v for failed=%s", d.Feasible, d.Failed)
			}
		})
	}
}

func TestCheckerReportsBlockingZone(t *testing.T) {
	c := mustChecker(t, []*domain.NoFlyZone{blockingZone()})
	d := c.Check(testDrone(), testDelivery(), domain.MustParseTimeOfDay("09:30"))
	if d.ZoneID != 7 {
		t.Fatalf("zone = %d, want 7", d.ZoneID)
	}
	if d.Failed.String() != "no_fly_zone" {
		t.Fatalf("failed = %q, want no_fly_zone", d.Failed)
	}
}

func TestCheckerWrappingWindow(t *testing.T) {
	c := mustChecker(t, nil)
	delivery := testDelivery()
	delivery.Window = domain.Window{Start: domain.MustParseTimeOfDay("22:00"), End: domain.MustParseTimeOfDay("02:00")}

	if !c.IsFeasible(testDrone(), delivery, domain.MustParseTimeOfDay("23:30")) {
		t.Fatal("23:30 must be inside 22:00-02:00")
	}
	if !c.IsFeasible(testDrone(), delivery, domain.MustParseTimeOfDay("01:00")) {
		t.Fatal("01:00 must be inside 22:00-02:00")
	}
	if c.IsFeasible(testDrone(), delivery, domain.MustParseTimeOfDay("12:00")) {
		t.Fatal("12:00 must be outside 22:00-02:00")
	}
}

func TestNewCheckerRejectsDegenerateZone(t *testing.T) {
	rings := [][]domain.Position{
		{{X: 0, Y: 0}, {X: 1, Y: 1}},
		{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}},
		{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 1}},
	}
	for _, ring := range rings {
		z := &domain.NoFlyZone{ID: 1, Polygon: ring}
		if _, err := NewChecker([]*domain.NoFlyZone{z}, 1); !errors.Is(err, domain.ErrDegeneratePolygon) {
			t.Fatalf("ring %v: err = %v, want ErrDegeneratePolygon", ring, err)
		}
	}
	if _, err := NewChecker(nil, -1); err == nil {
		t.Fatal("expected error for negative energy per distance")
	}
}
