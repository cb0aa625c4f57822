package util

import (
	"fmt"
	"math"

	iutil "github.com/unet360/unet360/backend/internal/util"
	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/store"
)

// AdjacencyInput is adjacency sent by a client. Unlike stored adjacency it
// is decoded strictly, so a malformed slot fails the request instead of
// being stored as empty.
type AdjacencyInput common.Adjacency

func (a *AdjacencyInput) UnmarshalJSON(data []byte) error {
	adj, err := common.ParseAdjacency(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	*a = AdjacencyInput(adj)
	return nil
}

// NodeInput is the request body for creating a node.
type NodeInput struct {
	Name            string                        `json:"name" validate:"required,nodename"`
	Location        string                        `json:"location"`
	ImageRef        string                        `json:"url_image" validate:"required"`
	Adjacency       AdjacencyInput                `json:"adjacent_nodes"`
	DirectionAngles []*float64                    `json:"direction_angles" validate:"max=4"`
	Tags            map[string]map[string]float64 `json:"tags"`
	Minimap         *common.Minimap               `json:"minimap"`
}

func (in NodeInput) Record() common.NodeRecord {
	return common.NodeRecord{
		Name:            iutil.NormalizeName(in.Name),
		Location:        iutil.NormalizeName(in.Location),
		ImageRef:        in.ImageRef,
		Adjacency:       common.Adjacency(in.Adjacency),
		DirectionAngles: in.DirectionAngles,
		Tags:            in.Tags,
		Minimap:         in.Minimap,
	}
}

// NodePatch is the request body for a partial node update. Absent fields
// are left unchanged; an empty location clears it.
type NodePatch struct {
	Name            *string                        `json:"name" validate:"omitempty,nodename"`
	Location        *string                        `json:"location"`
	ImageRef        *string                        `json:"url_image" validate:"omitempty,min=1"`
	Adjacency       *AdjacencyInput                `json:"adjacent_nodes"`
	DirectionAngles *[]*float64                    `json:"direction_angles" validate:"omitempty,max=4"`
	Tags            *map[string]map[string]float64 `json:"tags"`
	Minimap         *common.Minimap                `json:"minimap"`
}

func (p NodePatch) Update() store.NodeUpdate {
	u := store.NodeUpdate{
		ImageRef:        p.ImageRef,
		DirectionAngles: p.DirectionAngles,
		Tags:            p.Tags,
		Minimap:         p.Minimap,
	}
	if p.Adjacency != nil {
		adj := common.Adjacency(*p.Adjacency)
		u.Adjacency = &adj
	}
	if p.Name != nil {
		name := iutil.NormalizeName(*p.Name)
		u.Name = &name
	}
	if p.Location != nil {
		location := iutil.NormalizeName(*p.Location)
		u.Location = &location
	}
	return u
}

// CheckWeights rejects adjacency weights that cannot be traversed.
func CheckWeights(adj common.Adjacency) error {
	for i, slot := range adj {
		name, weight, ok := slot.Neighbor()
		if !ok {
			continue
		}
		if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return fmt.Errorf("%w: weight of %s adjacency '%s' must be a non-negative number",
				ErrInvalidInput, common.Directions[i], name)
		}
	}
	return nil
}

// References lists the names a node record points at.
type References struct {
	Location  string
	Tags      []string
	Neighbors []string
}

// ReferencesOf collects the referenced location, tags and neighbours of
// rec. Neighbours are deduplicated and a self reference is skipped.
func ReferencesOf(rec common.NodeRecord) References {
	return References{
		Location:  rec.Location,
		Tags:      tagNames(rec.Tags),
		Neighbors: neighborsOf(rec.Adjacency, rec.Name),
	}
}

// References collects what the patch would make the node point at. Names
// in self are the node's own old and new names and are not references.
func (p NodePatch) References(self ...string) References {
	var refs References
	if p.Location != nil {
		refs.Location = iutil.NormalizeName(*p.Location)
	}
	if p.Tags != nil {
		refs.Tags = tagNames(*p.Tags)
	}
	if p.Adjacency != nil {
		refs.Neighbors = neighborsOf(common.Adjacency(*p.Adjacency), self...)
	}
	return refs
}

func tagNames(tags map[string]map[string]float64) []string {
	var names []string
	for tag := range tags {
		names = append(names, tag)
	}
	return names
}

func neighborsOf(adj common.Adjacency, skip ...string) []string {
	seen := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		seen[s] = struct{}{}
	}
	var names []string
	for _, slot := range adj {
		name, _, ok := slot.Neighbor()
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
