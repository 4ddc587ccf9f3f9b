package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/platform/db"
	"drone-delivery-service/internal/platform/obs"
	"drone-delivery-service/internal/ports"
)

// SQL-backed implementation of the ScenarioWriter port.
type SQLScenarioRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

var _ ports.ScenarioWriter = (*SQLScenarioRepository)(nil)

func NewSQLScenarioRepository(conn *sql.DB, dialect db.Dialect) *SQLScenarioRepository {
	return &SQLScenarioRepository{DB: conn, Dialect: dialect}
}

// Return the names of all stored scenarios.
func (s *SQLScenarioRepository) ListScenarios(ctx context.Context) ([]string, error) {
	if s.DB == nil {
		return nil, errors.New("sql scenario repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT name FROM scenarios ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: query scenarios table: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0, 16)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list scenarios: scan row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scenarios: row iteration: %w", err)
	}

	return names, nil
}

// LoadScenario reads one scenario with its drones, deliveries and zones.
func (s *SQLScenarioRepository) LoadScenario(ctx context.Context, name string) (_ *domain.Scenario, err error) {
	defer obs.Time(ctx, "scenario.repo.Load")(&err)

	if s.DB == nil {
		return nil, errors.New("sql scenario repository: DB is nil")
	}

	var minute int
	err = s.DB.QueryRowContext(ctx, s.Dialect.Rebind(`SELECT current_minute FROM scenarios WHERE name = ?;`), name).Scan(&minute)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load scenario %q: %w", name, ports.ErrScenarioNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: query scenarios table: %w", name, err)
	}

	now, err := domain.TimeOfDayFromMinutes(minute)
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: %w", name, err)
	}
	sc := &domain.Scenario{Name: name, CurrentTime: now}

	if sc.Drones, err = s.loadDrones(ctx, name); err != nil {
		return nil, err
	}
	if sc.Deliveries, err = s.loadDeliveries(ctx, name); err != nil {
		return nil, err
	}
	if sc.Zones, err = s.loadZones(ctx, name); err != nil {
		return nil, err
	}

	return sc, nil
}

func (s *SQLScenarioRepository) loadDrones(ctx context.Context, name string) ([]*domain.Drone, error) {
	query := `
	SELECT
		drone_id,
		max_weight,
		battery,
		remaining_battery,
		speed,
		start_x,
		start_y,
		active
	FROM drones
	WHERE scenario = ?
	ORDER BY drone_id;
	`
	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(query), name)
	if err != nil {
		return nil, fmt.Errorf("load drones: query drones table: %w", err)
	}
	defer rows.Close()

	drones := make([]*domain.Drone, 0, 16)
	for rows.Next() {
		var d domain.Drone
		var active int
		if err := rows.Scan(&d.ID, &d.MaxWeight, &d.Battery, &d.RemainingBattery, &d.Speed, &d.Start.X, &d.Start.Y, &active); err != nil {
			return nil, fmt.Errorf("load drones: scan row: %w", err)
		}
		d.Active = active != 0
		drones = append(drones, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load drones: row iteration: %w", err)
	}

	return drones, nil
}

func (s *SQLScenarioRepository) loadDeliveries(ctx context.Context, name string) ([]*domain.Delivery, error) {
	query := `
	SELECT
		delivery_id,
		x,
		y,
		weight,
		priority,
		window_start,
		window_end,
		assigned_drone_id,
		delivered
	FROM deliveries
	WHERE scenario = ?
	ORDER BY delivery_id;
	`
	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(query), name)
	if err != nil {
		return nil, fmt.Errorf("load deliveries: query deliveries table: %w", err)
	}
	defer rows.Close()

	deliveries := make([]*domain.Delivery, 0, 64)
	for rows.Next() {
		var d domain.Delivery
		var start, end, delivered int
		var assigned sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Pos.X, &d.Pos.Y, &d.Weight, &d.Priority, &start, &end, &assigned, &delivered); err != nil {
			return nil, fmt.Errorf("load deliveries: scan row: %w", err)
		}
		d.Window = domain.Window{Start: domain.TimeOfDay(start), End: domain.TimeOfDay(end)}
		if assigned.Valid {
			id := int(assigned.Int64)
			d.AssignedDroneID = &id
		}
		d.Delivered = delivered != 0
		deliveries = append(deliveries, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load deliveries: row iteration: %w", err)
	}

	return deliveries, nil
}

func (s *SQLScenarioRepository) loadZones(ctx context.Context, name string) ([]*domain.NoFlyZone, error) {
	query := `
	SELECT
		z.zone_id,
		z.active_start,
		z.active_end,
		v.x,
		v.y
	FROM no_fly_zones z
	JOIN no_fly_zone_vertices v
		ON v.scenario = z.scenario AND v.zone_id = z.zone_id
	WHERE z.scenario = ?
	ORDER BY z.zone_id, v.seq;
	`
	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(query), name)
	if err != nil {
		return nil, fmt.Errorf("load zones: query no_fly_zones table: %w", err)
	}
	defer rows.Close()

	zones := make([]*domain.NoFlyZone, 0, 4)
	var cur *domain.NoFlyZone
	for rows.Next() {
		var id, start, end int
		var p domain.Position
		if err := rows.Scan(&id, &start, &end, &p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("load zones: scan row: %w", err)
		}
		if cur == nil || cur.ID != id {
			cur = &domain.NoFlyZone{ID: id, Active: domain.Window{Start: domain.TimeOfDay(start), End: domain.TimeOfDay(end)}}
			zones = append(zones, cur)
		}
		cur.Polygon = append(cur.Polygon, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load zones: row iteration: %w", err)
	}

	return zones, nil
}

// SaveScenario replaces any stored scenario with the same name.
func (s *SQLScenarioRepository) SaveScenario(ctx context.Context, sc *domain.Scenario) (err error) {
	defer obs.Time(ctx, "scenario.repo.Save")(&err)

	if s.DB == nil {
		return errors.New("sql scenario repository: DB is nil")
	}
	if sc == nil {
		return errors.New("save scenario: scenario is nil")
	}
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("save scenario: %w", err)
	}
	name := strings.TrimSpace(sc.Name)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save scenario: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"no_fly_zone_vertices", "no_fly_zones", "deliveries", "drones", "scenarios"} {
		col := "scenario"
		if table == "scenarios" {
			col = "name"
		}
		q := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?;`, table, col)
		if _, err := tx.ExecContext(ctx, s.Dialect.Rebind(q), name); err != nil {
			return fmt.Errorf("save scenario: clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, s.Dialect.Rebind(`INSERT INTO scenarios (name, current_minute) VALUES (?, ?);`), name, sc.CurrentTime.Minutes()); err != nil {
		return fmt.Errorf("save scenario: insert scenario: %w", err)
	}

	if err := s.insertDrones(ctx, tx, name, sc.Drones); err != nil {
		return err
	}
	if err := s.insertDeliveries(ctx, tx, name, sc.Deliveries); err != nil {
		return err
	}
	if err := s.insertZones(ctx, tx, name, sc.Zones); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save scenario: commit tx: %w", err)
	}

	return nil
}

func (s *SQLScenarioRepository) insertDrones(ctx context.Context, tx *sql.Tx, name string, drones []*domain.Drone) error {
	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO drones (
		scenario,
		drone_id,
		max_weight,
		battery,
		remaining_battery,
		speed,
		start_x,
		start_y,
		active
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save scenario: prepare drone insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range drones {
		if _, err := stmt.ExecContext(ctx, name, d.ID, d.MaxWeight, d.Battery, d.RemainingBattery, d.Speed, d.Start.X, d.Start.Y, boolInt(d.Active)); err != nil {
			return fmt.Errorf("save scenario: insert drone_id=%d: %w", d.ID, err)
		}
	}
	return nil
}

func (s *SQLScenarioRepository) insertDeliveries(ctx context.Context, tx *sql.Tx, name string, deliveries []*domain.Delivery) error {
	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO deliveries (
		scenario,
		delivery_id,
		x,
		y,
		weight,
		priority,
		window_start,
		window_end,
		assigned_drone_id,
		delivered
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save scenario: prepare delivery insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range deliveries {
		var assigned sql.NullInt64
		if d.AssignedDroneID != nil {
			assigned = sql.NullInt64{Int64: int64(*d.AssignedDroneID), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, name, d.ID, d.Pos.X, d.Pos.Y, d.Weight, d.Priority,
			d.Window.Start.Minutes(), d.Window.End.Minutes(), assigned, boolInt(d.Delivered)); err != nil {
			return fmt.Errorf("save scenario: insert delivery_id=%d: %w", d.ID, err)
		}
	}
	return nil
}

func (s *SQLScenarioRepository) insertZones(ctx context.Context, tx *sql.Tx, name string, zones []*domain.NoFlyZone) error {
	for _, z := range zones {
		if _, err := tx.ExecContext(ctx, s.Dialect.Rebind(`
		INSERT INTO no_fly_zones (scenario, zone_id, active_start, active_end)
		VALUES (?, ?, ?, ?);
		`), name, z.ID, z.Active.Start.Minutes(), z.Active.End.Minutes()); err != nil {
			return fmt.Errorf("save scenario: insert zone_id=%d: %w", z.ID, err)
		}

		for seq, p := range z.Polygon {
			if _, err := tx.ExecContext(ctx, s.Dialect.Rebind(`
			INSERT INTO no_fly_zone_vertices (scenario, zone_id, seq, x, y)
			VALUES (?, ?, ?, ?, ?);
			`), name, z.ID, seq, p.X, p.Y); err != nil {
				return fmt.Errorf("save scenario: insert zone_id=%d vertex %d: %w", z.ID, seq, err)
			}
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
