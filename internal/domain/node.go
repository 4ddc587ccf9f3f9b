package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeID names a position in the planning graph.
// Drone start positions and delivery destinations share one namespace,
// so each kind carries its own prefix.
type NodeID string

const (
	droneNodePrefix    = "drone:"
	deliveryNodePrefix = "delivery:"
)

func DroneNode(id int) NodeID    { return NodeID(droneNodePrefix + strconv.Itoa(id)) }
func DeliveryNode(id int) NodeID { return NodeID(deliveryNodePrefix + strconv.Itoa(id)) }

// ParseNodeID validates a node id received from outside the core.
func ParseNodeID(s string) (NodeID, error) {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{droneNodePrefix, deliveryNodePrefix} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			if _, err := strconv.Atoi(rest); err != nil {
				return "", fmt.Errorf("parse node id %q: %w", s, err)
			}
			return NodeID(s), nil
		}
	}
	return "", fmt.Errorf("parse node id %q: must start with %q or %q", s, droneNodePrefix, deliveryNodePrefix)
}
