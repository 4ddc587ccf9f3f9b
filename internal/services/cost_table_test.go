package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"drone-delivery-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCoster struct {
	mu    sync.Mutex
	calls int
	costs map[costKey]float64
}

func (c *countingCoster) PathCost(from, to domain.NodeID) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if v, ok := c.costs[costKey{from, to}]; ok {
		return v
	}
	return math.Inf(1)
}

type memCache struct {
	mu     sync.Mutex
	data   map[string]float64
	getErr error
	putErr error
	puts   int
}

func newMemCache() *memCache { return &memCache{data: map[string]float64{}} }

func (m *memCache) key(ns, origin, dest string) string { return ns + "|" + origin + "|" + dest }

func (m *memCache) GetMany(_ context.Context, ns, origin string, destinations []string) (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := map[string]float64{}
	for _, d := range destinations {
		if v, ok := m.data[m.key(ns, origin, d)]; ok {
			out[d] = v
		}
	}
	return out, nil
}

func (m *memCache) PutMany(_ context.Context, ns, origin string, costs map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	for d, v := range costs {
		m.data[m.key(ns, origin, d)] = v
	}
	return nil
}

func fakeCoster() *countingCoster {
	return &countingCoster{costs: map[costKey]float64{
		{"drone:1", "delivery:1"}: 10,
		{"drone:1", "delivery:2"}: 20,
		{"drone:2", "delivery:1"}: 30,
		// drone:2 -> delivery:2 is unreachable
	}}
}

var (
	warmOrigins      = []domain.NodeID{"drone:1", "drone:2"}
	warmDestinations = []domain.NodeID{"delivery:1", "delivery:2"}
)

func TestCostTableMemoizes(t *testing.T) {
	next := fakeCoster()
	table := NewCostTable(next)

	assert.Equal(t, 10.0, table.PathCost("drone:1", "delivery:1"))
	assert.Equal(t, 10.0, table.PathCost("drone:1", "delivery:1"))
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 1, table.Len())
}

func TestCostTableWarmWritesThroughCache(t *testing.T) {
	cache := newMemCache()
	next := fakeCoster()
	table := NewCostTable(next)

	require.NoError(t, table.Warm(context.Background(), cache, "ns", warmOrigins, warmDestinations))
	assert.Equal(t, 4, next.calls)
	assert.Equal(t, 4, table.Len())
	// three reachable costs persisted, the unreachable one is not
	assert.Len(t, cache.data, 3)
	assert.NotContains(t, cache.data, "ns|drone:2|delivery:2")

	// served from the table without touching next
	assert.Equal(t, 30.0, table.PathCost("drone:2", "delivery:1"))
	assert.True(t, math.IsInf(table.PathCost("drone:2", "delivery:2"), 1))
	assert.Equal(t, 4, next.calls)

	// a fresh table reads the cache and only recomputes the miss
	next2 := fakeCoster()
	require.NoError(t, NewCostTable(next2).Warm(context.Background(), cache, "ns", warmOrigins, warmDestinations))
	assert.Equal(t, 1, next2.calls)
}

func TestCostTableWarmNamespacesAreIsolated(t *testing.T) {
	cache := newMemCache()
	require.NoError(t, NewCostTable(fakeCoster()).Warm(context.Background(), cache, "a", warmOrigins, warmDestinations))

	next := fakeCoster()
	require.NoError(t, NewCostTable(next).Warm(context.Background(), cache, "b", warmOrigins, warmDestinations))
	assert.Equal(t, 4, next.calls)
}

func TestCostTableWarmErrors(t *testing.T) {
	boom := errors.New("boom")

	cache := newMemCache()
	cache.getErr = boom
	err := NewCostTable(fakeCoster()).Warm(context.Background(), cache, "ns", warmOrigins, warmDestinations)
	assert.ErrorIs(t, err, boom)

	// write failures are logged, not returned
	cache = newMemCache()
	cache.putErr = boom
	table := NewCostTable(fakeCoster())
	require.NoError(t, table.Warm(context.Background(), cache, "ns", warmOrigins, warmDestinations))
	assert.Equal(t, 4, table.Len())
}

func TestCostTableWarmWithoutCache(t *testing.T) {
	table := NewCostTable(fakeCoster())
	require.NoError(t, table.Warm(context.Background(), nil, "ns", warmOrigins, warmDestinations))
	assert.Equal(t, 4, table.Len())
	require.NoError(t, table.Warm(context.Background(), nil, "ns", nil, warmDestinations))
}

func TestFingerprint(t *testing.T) {
	a := map[domain.NodeID]domain.Position{"drone:1": {X: 0, Y: 0}, "delivery:1": {X: 10, Y: 0}}
	b := map[domain.NodeID]domain.Position{"delivery:1": {X: 10, Y: 0}, "drone:1": {X: 0, Y: 0}}
	c := map[domain.NodeID]domain.Position{"drone:1": {X: 0, Y: 0}, "delivery:1": {X: 10, Y: 1}}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	assert.Len(t, Fingerprint(a), 16)
}
