package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"time"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	StopGenerations = "generations"
	StopTimeBudget  = "time_budget"
	StopEmptyInput  = "empty_input"
)

// Config controls one genetic search run.
type Config struct {
	Generations    int
	PopulationSize int
	MutationRate   float64 // probability that a child is mutated
	TopK           int     // parents are drawn from the K fittest individuals
	PriorityWeight float64 // reward per priority point of an assigned delivery
	PenaltyFactor  float64 // scales the energy penalty of the summed path costs
	Seed           uint64  // 0 picks a time-based seed
	Parallelism    int     // fitness workers, <= 0 means GOMAXPROCS
	TimeBudget     time.Duration

	// OnGeneration, when set, is called on the run goroutine after each generation.
	OnGeneration func(Progress)
}

func DefaultConfig() Config {
	return Config{
		Generations:    30,
		PopulationSize: 10,
		MutationRate:   0.2,
		TopK:           5,
		PriorityWeight: 100,
		PenaltyFactor:  1,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Generations < 0:
		return fmt.Errorf("optimizer config: generations must be >= 0, got %d", c.Generations)
	case c.PopulationSize < 1:
		return fmt.Errorf("optimizer config: population size must be >= 1, got %d", c.PopulationSize)
	case c.MutationRate < 0 || c.MutationRate > 1:
		return fmt.Errorf("optimizer config: mutation rate must be in [0, 1], got %g", c.MutationRate)
	case c.TopK < 1:
		return fmt.Errorf("optimizer config: top-k must be >= 1, got %d", c.TopK)
	case c.TimeBudget < 0:
		return errors.New("optimizer config: time budget must be >= 0")
	}
	return nil
}

// Progress is reported after every generation.
type Progress struct {
	Generation  int
	BestFitness float64
	MeanFitness float64
	Feasible    int
	Best        domain.Solution
}

type Result struct {
	Best        domain.Solution
	Fitness     float64
	Generations int
	History     []float64 // best fitness after each generation, initial population first
	StopReason  string
}

type individual struct {
	sol       domain.Solution
	fitness   float64
	feasible  bool
	evaluated bool
}

// Optimizer evolves drone->delivery assignments.
//
// Each fitness evaluation only reads the scenario records, the checker and
// the path coster, so a generation is scored concurrently. Everything that
// draws from the random source stays on the calling goroutine: a fixed Seed
// reproduces the run.
type Optimizer struct {
	drones       []*domain.Drone
	deliveries   []*domain.Delivery
	droneByID    map[int]*domain.Drone
	deliveryByID map[int]*domain.Delivery
	now          domain.TimeOfDay
	checker      *Checker
	coster       ports.PathCoster
	cfg          Config
	rng          *rand.Rand
}

func NewOptimizer(
	drones []*domain.Drone,
	deliveries []*domain.Delivery,
	now domain.TimeOfDay,
	checker *Checker,
	coster ports.PathCoster,
	cfg Config,
) (*Optimizer, error) {
	if checker == nil || coster == nil {
		return nil, errors.New("new optimizer: checker and coster must be non-nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new optimizer: %w", err)
	}

	// Inactive drones and delivered deliveries take no part in the search;
	// a solution naming one of them scores like one naming an unknown id.
	drones = availableDrones(drones)
	deliveries = pendingDeliveries(deliveries)

	droneByID := make(map[int]*domain.Drone, len(drones))
	for _, d := range drones {
		droneByID[d.ID] = d
	}
	deliveryByID := make(map[int]*domain.Delivery, len(deliveries))
	for _, d := range deliveries {
		deliveryByID[d.ID] = d
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}

	return &Optimizer{
		drones:       drones,
		deliveries:   deliveries,
		droneByID:    droneByID,
		deliveryByID: deliveryByID,
		now:          now,
		checker:      checker,
		coster:       coster,
		cfg:          cfg,
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Run evolves the population for the configured number of generations and
// returns the fittest feasible assignment of the final population. A run
// without drones or deliveries, or one that never finds a feasible
// individual, returns an empty assignment with zero fitness.
func (o *Optimizer) Run(ctx context.Context) (Result, error) {
	ctx, span := otel.Tracer("drone-delivery-service/services").Start(ctx, "optimizer.run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("optimizer.generations", o.cfg.Generations),
		attribute.Int("optimizer.population_size", o.cfg.PopulationSize),
		attribute.Int("optimizer.drones", len(o.drones)),
		attribute.Int("optimizer.deliveries", len(o.deliveries)),
	)

	if len(o.drones) == 0 || len(o.deliveries) == 0 {
		return Result{Best: domain.Solution{}, StopReason: StopEmptyInput}, nil
	}

	start := time.Now()

	pop := o.initialPopulation()
	if err := o.evaluateAll(ctx, pop); err != nil {
		return Result{}, fmt.Errorf("optimizer run: evaluate initial population: %w", err)
	}
	rank(pop)

	history := []float64{pop[0].fitness}
	stop := StopGenerations
	gen := 0

	for ; gen < o.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("optimizer run: generation %d: %w", gen, err)
		}
		if o.cfg.TimeBudget > 0 && time.Since(start) >= o.cfg.TimeBudget {
			stop = StopTimeBudget
			break
		}

		next := make([]*individual, 0, o.cfg.PopulationSize)
		// Elitism: the fittest individual survives unchanged.
		next = append(next, pop[0])

		parents := pop[:min(o.cfg.TopK, len(pop))]
		for len(next) < o.cfg.PopulationSize {
			p1, p2 := o.pickParents(parents)
			child := crossover(p1.sol, p2.sol)
			o.mutate(child)
			next = append(next, &individual{sol: child})
		}

		if err := o.evaluateAll(ctx, next); err != nil {
			return Result{}, fmt.Errorf("optimizer run: generation %d: %w", gen, err)
		}
		rank(next)
		pop = next

		history = append(history, pop[0].fitness)
		if o.cfg.OnGeneration != nil {
			o.cfg.OnGeneration(summarize(gen+1, pop))
		}
	}

	res := Result{Best: domain.Solution{}, Generations: gen, History: history, StopReason: stop}
	for _, ind := range pop {
		if ind.feasible {
			res.Best = ind.sol.Clone()
			res.Fitness = ind.fitness
			break
		}
	}

	span.SetAttributes(
		attribute.Float64("optimizer.best_fitness", res.Fitness),
		attribute.Int("optimizer.assigned", len(res.Best)),
		attribute.String("optimizer.stop_reason", stop),
	)
	return res, nil
}

// initialPopulation builds individuals that respect every constraint: each
// one visits the deliveries in a fresh random order and lets every drone take
// the first feasible delivery still available.
func (o *Optimizer) initialPopulation() []*individual {
	pop := make([]*individual, 0, o.cfg.PopulationSize)
	for range o.cfg.PopulationSize {
		order := slices.Clone(o.deliveries)
		o.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		pop = append(pop, &individual{sol: FirstFeasibleAssign(o.drones, order, o.now, o.checker)})
	}
	return pop
}

// Fitness scores a solution. Solutions that reuse a drone or a delivery,
// reference unknown records, contain an infeasible pair or an unreachable
// destination score zero and are reported as infeasible.
func (o *Optimizer) Fitness(sol domain.Solution) (float64, bool) {
	if sol.HasDuplicateDrone() || sol.HasDuplicateDelivery() {
		return 0, false
	}

	var reward, cost float64
	for _, p := range sol {
		drone, ok := o.droneByID[p.DroneID]
		if !ok {
			return 0, false
		}
		delivery, ok := o.deliveryByID[p.DeliveryID]
		if !ok {
			return 0, false
		}
		if !o.checker.IsFeasible(drone, delivery, o.now) {
			return 0, false
		}

		c := o.coster.PathCost(drone.Node(), delivery.Node())
		if math.IsInf(c, 1) {
			return 0, false
		}
		reward += float64(delivery.Priority) * o.cfg.PriorityWeight
		cost += c
	}

	penalty := cost * o.checker.EnergyPerDistance() * o.cfg.PenaltyFactor
	return reward - penalty, true
}

func (o *Optimizer) evaluateAll(ctx context.Context, pop []*individual) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Parallelism)

	for _, ind := range pop {
		if ind.evaluated {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ind.fitness, ind.feasible = o.Fitness(ind.sol)
			ind.evaluated = true
			return nil
		})
	}

	return g.Wait()
}

// rank sorts by fitness, highest first. At equal fitness feasible individuals
// come first; remaining ties keep population order.
func rank(pop []*individual) {
	slices.SortStableFunc(pop, func(a, b *individual) int {
		switch {
		case a.fitness > b.fitness:
			return -1
		case a.fitness < b.fitness:
			return 1
		case a.feasible && !b.feasible:
			return -1
		case !a.feasible && b.feasible:
			return 1
		}
		return 0
	})
}

// pickParents draws two distinct individuals uniformly from candidates. A
// single candidate is used as both parents.
func (o *Optimizer) pickParents(candidates []*individual) (*individual, *individual) {
	if len(candidates) == 1 {
		return candidates[0], candidates[0]
	}
	i := o.rng.IntN(len(candidates))
	j := o.rng.IntN(len(candidates) - 1)
	if j >= i {
		j++
	}
	return candidates[i], candidates[j]
}

// crossover keeps the first half of p1 and appends every pair of p2 that is
// not already in that half. The child may reuse a drone or a delivery;
// fitness scores such children zero.
func crossover(p1, p2 domain.Solution) domain.Solution {
	head := p1[:len(p1)/2]

	child := make(domain.Solution, 0, len(head)+len(p2))
	child = append(child, head...)
	for _, p := range p2 {
		if !head.Contains(p) {
			child = append(child, p)
		}
	}
	return child
}

// mutate reassigns the delivery of one random pair to a random feasible
// delivery that the solution does not use yet. The solution is modified in
// place and must be owned by the caller.
func (o *Optimizer) mutate(sol domain.Solution) {
	if len(sol) == 0 || o.rng.Float64() >= o.cfg.MutationRate {
		return
	}

	i := o.rng.IntN(len(sol))
	drone, ok := o.droneByID[sol[i].DroneID]
	if !ok {
		return
	}

	used := sol.DeliveryIDs()
	unassigned := make([]*domain.Delivery, 0, len(o.deliveries))
	for _, d := range o.deliveries {
		if _, ok := used[d.ID]; !ok {
			unassigned = append(unassigned, d)
		}
	}
	o.rng.Shuffle(len(unassigned), func(a, b int) { unassigned[a], unassigned[b] = unassigned[b], unassigned[a] })

	for _, d := range unassigned {
		if o.checker.IsFeasible(drone, d, o.now) {
			sol[i].DeliveryID = d.ID
			return
		}
	}
}

func summarize(gen int, pop []*individual) Progress {
	p := Progress{Generation: gen, BestFitness: pop[0].fitness, Best: pop[0].sol.Clone()}
	var sum float64
	for _, ind := range pop {
		sum += ind.fitness
		if ind.feasible {
			p.Feasible++
		}
	}
	p.MeanFitness = sum / float64(len(pop))
	return p
}
