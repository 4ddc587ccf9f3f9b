package domain

// Pair assigns one delivery to one drone.
type Pair struct {
	DroneID    int
	DeliveryID int
}

// Solution is a candidate assignment. A feasible solution uses each drone
// and each delivery at most once.
type Solution []Pair

func (s Solution) Clone() Solution {
	if s == nil {
		return nil
	}
	out := make(Solution, len(s))
	copy(out, s)
	return out
}

func (s Solution) Contains(p Pair) bool {
	for _, q := range s {
		if q == p {
			return true
		}
	}
	return false
}

func (s Solution) HasDuplicateDrone() bool {
	seen := make(map[int]struct{}, len(s))
	for _, p := range s {
		if _, ok := seen[p.DroneID]; ok {
			return true
		}
		seen[p.DroneID] = struct{}{}
	}
	return false
}

func (s Solution) HasDuplicateDelivery() bool {
	seen := make(map[int]struct{}, len(s))
	for _, p := range s {
		if _, ok := seen[p.DeliveryID]; ok {
			return true
		}
		seen[p.DeliveryID] = struct{}{}
	}
	return false
}

func (s Solution) DeliveryIDs() map[int]struct{} {
	out := make(map[int]struct{}, len(s))
	for _, p := range s {
		out[p.DeliveryID] = struct{}{}
	}
	return out
}
