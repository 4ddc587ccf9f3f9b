package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math"
	"slices"
	"strconv"
	"sync"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/platform/metrics"
	"drone-delivery-service/internal/platform/obs"
	"drone-delivery-service/internal/ports"
)

type costKey struct {
	from, to domain.NodeID
}

// CostTable memoizes path costs in front of another PathCoster.
//
// Fitness evaluation asks for the same drone->delivery costs many times per
// generation; the table turns those into map lookups. It is safe for
// concurrent use.
type CostTable struct {
	next ports.PathCoster

	mu    sync.RWMutex
	costs map[costKey]float64
}

var _ ports.PathCoster = (*CostTable)(nil)

func NewCostTable(next ports.PathCoster) *CostTable {
	return &CostTable{next: next, costs: make(map[costKey]float64)}
}

func (t *CostTable) PathCost(from, to domain.NodeID) float64 {
	k := costKey{from, to}

	t.mu.RLock()
	c, ok := t.costs[k]
	t.mu.RUnlock()
	if ok {
		return c
	}

	c = t.next.PathCost(from, to)
	t.set(k, c)
	return c
}

func (t *CostTable) set(k costKey, cost float64) {
	t.mu.Lock()
	t.costs[k] = cost
	t.mu.Unlock()
}

func (t *CostTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.costs)
}

type warmResult struct {
	origin domain.NodeID
	costs  map[domain.NodeID]float64
	err    error
}

// Warm fills the table with every origin->destination cost. Cached costs are
// read from cache (may be nil); misses are computed concurrently and written
// back. Unreachable costs are kept in the table but never persisted.
func (t *CostTable) Warm(
	ctx context.Context,
	cache ports.PathCostCache,
	namespace string,
	origins []domain.NodeID,
	destinations []domain.NodeID,
) (err error) {
	defer obs.Time(ctx, "costtable.Warm")(&err)

	if len(origins) == 0 || len(destinations) == 0 {
		return nil
	}

	destKeys := make([]string, len(destinations))
	for i, d := range destinations {
		destKeys[i] = string(d)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, 5)
	resultsCh := make(chan warmResult, len(origins))
	var wg sync.WaitGroup

	for _, origin := range origins {
		wg.Add(1)
		go func(orig domain.NodeID) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				resultsCh <- warmResult{origin: orig, err: err}
				return
			}

			out := make(map[domain.NodeID]float64, len(destinations))

			hits := map[string]float64{}
			if cache != nil {
				var e error
				hits, e = cache.GetMany(ctx, namespace, string(orig), destKeys)
				if e != nil {
					resultsCh <- warmResult{origin: orig, err: fmt.Errorf("warm cost table: get cached costs from %q: %w", orig, e)}
					cancel()
					return
				}
			}
			metrics.PathCacheLookups.WithLabelValues("hit").Add(float64(len(hits)))

			fresh := make(map[string]float64)
			for _, d := range destinations {
				if c, ok := hits[string(d)]; ok {
					out[d] = c
					continue
				}
				c := t.next.PathCost(orig, d)
				out[d] = c
				if !math.IsInf(c, 1) {
					fresh[string(d)] = c
				}
			}
			metrics.PathCacheLookups.WithLabelValues("miss").Add(float64(len(destinations) - len(hits)))

			if cache != nil && len(fresh) > 0 {
				if e := cache.PutMany(ctx, namespace, string(orig), fresh); e != nil {
					log.Printf("path cost cache write failed: origin=%s err=%v", orig, e)
				}
			}

			resultsCh <- warmResult{origin: orig, costs: out}
		}(origin)
	}

	wg.Wait()
	close(resultsCh)

	var warmErr error
	for res := range resultsCh {
		if res.err != nil {
			if warmErr == nil {
				warmErr = res.err
			}
			continue
		}
		for d, c := range res.costs {
			t.set(costKey{res.origin, d}, c)
		}
	}

	return warmErr
}

// Fingerprint identifies a set of node positions. Two scenarios with the same
// fingerprint produce the same graph and can share cached path costs.
func Fingerprint(positions map[domain.NodeID]domain.Position) string {
	ids := make([]domain.NodeID, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	h := sha256.New()
	for _, id := range ids {
		p := positions[id]
		h.Write([]byte(id))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatFloat(p.X, 'g', -1, 64)))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatFloat(p.Y, 'g', -1, 64)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
