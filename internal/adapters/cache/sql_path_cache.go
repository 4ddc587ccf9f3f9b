package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"drone-delivery-service/internal/platform/db"
	"drone-delivery-service/internal/platform/obs"
	"drone-delivery-service/internal/ports"
)

// SQLPathCache is a SQL-backed cache for origin->destination path costs.
// Keys are node ids; namespace separates graphs built from different positions.
type SQLPathCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

var _ ports.PathCostCache = (*SQLPathCache)(nil)

func NewSQLPathCache(conn *sql.DB, dialect db.Dialect) *SQLPathCache {
	return &SQLPathCache{DB: conn, Dialect: dialect}
}

// Fetch cached costs for one origin and multiple destinations.
func (s *SQLPathCache) GetMany(
	ctx context.Context,
	namespace string,
	origin string,
	destinations []string,
) (_ map[string]float64, err error) {
	defer obs.Time(ctx, "path.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("path cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get path cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]float64{}, nil
	}

	args := make([]any, 0, 2+len(uniq))
	args = append(args, namespace, origin)
	for _, d := range uniq {
		args = append(args, d)
	}

	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
		destination,
		cost
	FROM path_cost_cache
	WHERE namespace = ?
		AND origin = ?
		AND destination IN (%s);
	`, db.Placeholders(len(uniq)))

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("get path cache: query path_cost_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64, len(uniq))
	for rows.Next() {
		var dest string
		var cost float64
		if err := rows.Scan(&dest, &cost); err != nil {
			return nil, fmt.Errorf("get path cache: scan rows: %w", err)
		}
		out[dest] = cost
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get path cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many cached path costs for a single origin.
func (s *SQLPathCache) PutMany(
	ctx context.Context,
	namespace string,
	origin string,
	costs map[string]float64,
) error {
	if s.DB == nil {
		return errors.New("path cache: db is nil")
	}

	if origin == "" {
		return errors.New("insert path cache: origin must not be empty")
	}

	if len(costs) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert path cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO path_cost_cache (namespace, origin, destination, cost)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (namespace, origin, destination) DO UPDATE
	SET cost = EXCLUDED.cost;
	`))
	if err != nil {
		return fmt.Errorf("insert path cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, c := range costs {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert path cache: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, namespace, origin, dest, c); err != nil {
			return fmt.Errorf("insert path cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert path cache commit: %w", err)
	}

	return nil
}

func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}
