package services

import (
	"errors"
	"math"
	"slices"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/ports"
)

// FirstFeasibleAssign walks the drones in order and gives each one the first
// delivery, in the given order, that passes the checker and is still free.
// The result uses every drone and every delivery at most once. Inactive
// drones and delivered deliveries are skipped.
func FirstFeasibleAssign(
	drones []*domain.Drone,
	deliveries []*domain.Delivery,
	now domain.TimeOfDay,
	checker *Checker,
) domain.Solution {
	drones = availableDrones(drones)
	available := pendingDeliveries(deliveries)
	sol := make(domain.Solution, 0, min(len(drones), len(deliveries)))

	for _, drone := range drones {
		if len(available) == 0 {
			break
		}
		for i, d := range available {
			if checker.IsFeasible(drone, d, now) {
				sol = append(sol, domain.Pair{DroneID: drone.ID, DeliveryID: d.ID})
				available = slices.Delete(available, i, i+1)
				break
			}
		}
	}

	return sol
}

func availableDrones(drones []*domain.Drone) []*domain.Drone {
	return slices.DeleteFunc(slices.Clone(drones), func(d *domain.Drone) bool { return !d.Active })
}

func pendingDeliveries(deliveries []*domain.Delivery) []*domain.Delivery {
	return slices.DeleteFunc(slices.Clone(deliveries), func(d *domain.Delivery) bool { return d.Delivered })
}

// GreedyAssign gives each active drone, in order, the cheapest feasible
// pending delivery still free.
//
// The heuristic minimizes the immediate path cost per drone and ignores
// priorities, so it is a baseline to compare the genetic search against, not
// an optimizer.
func GreedyAssign(
	drones []*domain.Drone,
	deliveries []*domain.Delivery,
	now domain.TimeOfDay,
	checker *Checker,
	coster ports.PathCoster,
) (domain.Solution, error) {
	if checker == nil || coster == nil {
		return nil, errors.New("greedy assign: checker and coster must be non-nil")
	}

	drones = availableDrones(drones)
	deliveries = pendingDeliveries(deliveries)

	taken := make(map[int]struct{}, len(deliveries))
	sol := domain.Solution{}

	for _, drone := range drones {
		bestID := 0
		bestCost := math.Inf(1)

		for _, d := range deliveries {
			if _, ok := taken[d.ID]; ok {
				continue
			}
			if !checker.IsFeasible(drone, d, now) {
				continue
			}
			c := coster.PathCost(drone.Node(), d.Node())
			// Tie-breaker ensures deterministic ordering when costs are equal.
			if c < bestCost || (c == bestCost && bestID != 0 && d.ID < bestID) {
				bestCost = c
				bestID = d.ID
			}
		}

		if bestID == 0 {
			continue
		}
		taken[bestID] = struct{}{}
		sol = append(sol, domain.Pair{DroneID: drone.ID, DeliveryID: bestID})
	}

	return sol, nil
}
