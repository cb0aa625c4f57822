package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedAdjacency is returned by the strict parsers for adjacency
// data that is not a list of null or singleton {"<neighbour>": <weight>}
// entries.
var ErrMalformedAdjacency = errors.New("malformed adjacency")

// Direction names one of the four adjacency positions of a node. The
// numeric value is the index into NodeRecord.Adjacency and
// NodeRecord.DirectionAngles.
type Direction int

const (
	Forward Direction = iota
	Back
	Left
	Right
)

// SlotCount is the fixed number of adjacency positions per node.
const SlotCount = 4

// Directions lists every direction in slot order.
var Directions = [SlotCount]Direction{Forward, Back, Left, Right}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Slot is a single adjacency position. It is either empty or names exactly
// one neighbour together with the traversal weight towards it.
//
// On the wire a slot is encoded as JSON null or as a singleton object
// {"<neighbour>": <weight>}.
type Slot struct {
	name   string
	weight float64
	set    bool
}

// EmptySlot returns a slot without neighbour.
func EmptySlot() Slot {
	return Slot{}
}

// NeighborSlot returns a slot pointing at name with the given weight.
func NeighborSlot(name string, weight float64) Slot {
	return Slot{name: name, weight: weight, set: true}
}

// Neighbor returns the neighbour name and weight. ok is false for an empty
// slot.
func (s Slot) Neighbor() (name string, weight float64, ok bool) {
	return s.name, s.weight, s.set
}

// IsEmpty reports whether the slot has no neighbour.
func (s Slot) IsEmpty() bool {
	return !s.set
}

func (s Slot) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]float64{s.name: s.weight})
}

// UnmarshalJSON is lenient: anything that ParseSlot rejects decodes to an
// empty slot. Use ParseSlot for data that must be rejected instead.
func (s *Slot) UnmarshalJSON(data []byte) error {
	slot, err := ParseSlot(data)
	if err != nil {
		slot = EmptySlot()
	}
	*s = slot
	return nil
}

// ParseSlot decodes a single slot and fails on anything but null or a
// singleton object with a numeric weight.
func ParseSlot(data []byte) (Slot, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return EmptySlot(), nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Slot{}, fmt.Errorf("%w: slot is not an object", ErrMalformedAdjacency)
	}
	if len(raw) != 1 {
		return Slot{}, fmt.Errorf("%w: slot names %d neighbours", ErrMalformedAdjacency, len(raw))
	}
	for name, rawWeight := range raw {
		var weight *float64
		if err := json.Unmarshal(rawWeight, &weight); err != nil || weight == nil {
			return Slot{}, fmt.Errorf("%w: weight of '%s' is not a number", ErrMalformedAdjacency, name)
		}
		return NeighborSlot(name, *weight), nil
	}
	return Slot{}, ErrMalformedAdjacency
}

// Adjacency is the fixed-size, ordered set of adjacency slots of a node.
type Adjacency [SlotCount]Slot

// UnmarshalJSON accepts arrays of any length. Missing positions are empty,
// positions beyond SlotCount are dropped.
func (a *Adjacency) UnmarshalJSON(data []byte) error {
	*a = Adjacency{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var slots []Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return err
	}
	for i := 0; i < len(slots) && i < SlotCount; i++ {
		a[i] = slots[i]
	}
	return nil
}

// ParseAdjacency strictly decodes a list of at most SlotCount slots.
// Missing positions are empty.
func ParseAdjacency(data []byte) (Adjacency, error) {
	var adj Adjacency
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return adj, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return adj, fmt.Errorf("%w: not a list", ErrMalformedAdjacency)
	}
	if len(raw) > SlotCount {
		return adj, fmt.Errorf("%w: %d slots, at most %d allowed", ErrMalformedAdjacency, len(raw), SlotCount)
	}
	for i, item := range raw {
		slot, err := ParseSlot(item)
		if err != nil {
			return Adjacency{}, fmt.Errorf("%s slot: %w", Directions[i], err)
		}
		adj[i] = slot
	}
	return adj, nil
}

// Populated returns the number of slots that name a neighbour.
func (a Adjacency) Populated() int {
	n := 0
	for _, slot := range a {
		if !slot.IsEmpty() {
			n++
		}
	}
	return n
}

// Declares reports whether any slot names the given neighbour.
func (a Adjacency) Declares(name string) bool {
	for _, slot := range a {
		if neighbor, _, ok := slot.Neighbor(); ok && neighbor == name {
			return true
		}
	}
	return false
}

// Minimap places a node on an overview image.
type Minimap struct {
	Image string  `json:"image"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// UnsetMinimap is the placeholder stored for nodes without minimap
// placement.
var UnsetMinimap = Minimap{Image: "missing.png", X: 0, Y: 0}

// IsUnset reports whether m carries no real placement. A nil minimap is
// treated the same as the placeholder.
func (m *Minimap) IsUnset() bool {
	return m == nil || *m == UnsetMinimap
}

// NodeRecord is a persisted panorama node as supplied by a node source.
//
// Adjacency always holds exactly four slots (forward, back, left, right).
// DirectionAngles runs parallel to Adjacency but may be shorter; a nil
// entry means no angle was recorded for that direction.
type NodeRecord struct {
	Name            string                        `json:"name"`
	Location        string                        `json:"location,omitempty"`
	ImageRef        string                        `json:"url_image"`
	Adjacency       Adjacency                     `json:"adjacent_nodes"`
	DirectionAngles []*float64                    `json:"direction_angles"`
	Tags            map[string]map[string]float64 `json:"tags"`
	Minimap         *Minimap                      `json:"minimap,omitempty"`
}

// Location groups nodes, e.g. a building or a floor.
type Location struct {
	Name string `json:"name"`
}

// Tag is a label that can be attached to nodes with per-value headings.
type Tag struct {
	Name     string  `json:"name"`
	IconName *string `json:"icon_name"`
}

// Tenant is an operator account, keyed by the user id its tokens carry.
// EmailConfirmed and LastSignInAt are taken from the most recent verified
// token of that user.
type Tenant struct {
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	EmailConfirmed bool       `json:"email_confirmed"`
	LastSignInAt   *time.Time `json:"last_sign_in_at"`
}
