package services

import (
	"errors"
	"fmt"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/ports"
)

// PlanRoutes turns an assignment into per-drone flight plans.
//
// Each drone departs at departAt and flies the shortest graph path to its
// delivery; arrival time follows from the drone speed. An unknown id or an
// unreachable destination is an error: the assignment was expected to come
// from an optimizer run on the same inputs.
func PlanRoutes(
	assignment domain.Solution,
	drones map[int]*domain.Drone,
	deliveries map[int]*domain.Delivery,
	finder ports.PathFinder,
	energyPerDistance float64,
	departAt domain.TimeOfDay,
) ([]domain.RoutePlan, error) {
	if finder == nil {
		return nil, errors.New("plan routes: finder must be non-nil")
	}

	routes := make([]domain.RoutePlan, 0, len(assignment))
	for _, p := range assignment {
		drone, ok := drones[p.DroneID]
		if !ok {
			return nil, fmt.Errorf("plan routes: unknown drone %d", p.DroneID)
		}
		delivery, ok := deliveries[p.DeliveryID]
		if !ok {
			return nil, fmt.Errorf("plan routes: unknown delivery %d", p.DeliveryID)
		}

		res := finder.FindPath(drone.Node(), delivery.Node())
		if !res.Reachable() {
			return nil, fmt.Errorf("plan routes: no path from %s to %s", drone.Node(), delivery.Node())
		}

		routes = append(routes, domain.RoutePlan{
			DroneID:        drone.ID,
			DeliveryID:     delivery.ID,
			Path:           res.Path,
			DistanceMeters: res.Cost,
			Energy:         res.Cost * energyPerDistance,
			DepartAt:       departAt,
			ArriveAt:       departAt.AddSeconds(res.Cost / drone.Speed),
		})
	}

	return routes, nil
}
