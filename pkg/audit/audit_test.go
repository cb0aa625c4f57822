package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unet360/unet360/backend/pkg/common"
)

func angles(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

// healthy returns a record that passes every rule on its own, apart from
// the neighbour checks which depend on the rest of the set.
func healthy(name string, neighbours ...string) common.NodeRecord {
	rec := common.NodeRecord{
		Name:            name,
		Location:        "building-a",
		ImageRef:        name + ".jpg",
		DirectionAngles: angles(0, 90, 180, 270),
		Minimap:         &common.Minimap{Image: "floor1.png", X: 10, Y: 20},
	}
	for i, n := range neighbours {
		rec.Adjacency[i] = common.NeighborSlot(n, 1)
	}
	return rec
}

func statusOf(t *testing.T, statuses []NodeStatus, name string) NodeStatus {
	t.Helper()
	for _, s := range statuses {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no status for %q", name)
	return NodeStatus{}
}

func TestAuditAll_HealthyPair(t *testing.T) {
	statuses := AuditAll([]common.NodeRecord{
		healthy("001", "002"),
		healthy("002", "001"),
	})

	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.Equal(t, StatusOK, s.Status, s.Name)
		assert.Empty(t, s.Reasons)
		assert.NotNil(t, s.Reasons)
	}
}

func TestAuditAll_MissingImageAndNoNeighbours(t *testing.T) {
	rec := healthy("001")
	rec.ImageRef = ""

	s := AuditAll([]common.NodeRecord{rec})[0]

	assert.Equal(t, StatusError, s.Status)
	assert.Contains(t, s.Reasons, "missing image reference")
	assert.Contains(t, s.Reasons, "no adjacent nodes declared")
}

func TestAuditAll_MissingOnlyLocation(t *testing.T) {
	a := healthy("001", "002")
	a.Location = ""
	b := healthy("002", "001")

	statuses := AuditAll([]common.NodeRecord{a, b})

	assert.Equal(t, NodeStatus{
		Name:    "001",
		Status:  StatusWarning,
		Reasons: []string{"missing location"},
	}, statuses[0])
	assert.Equal(t, StatusOK, statuses[1].Status)
}

func TestAuditAll_ErrorOutranksWarnings(t *testing.T) {
	rec := healthy("001")
	rec.Location = ""
	rec.Minimap = nil

	s := AuditAll([]common.NodeRecord{rec})[0]

	assert.Equal(t, StatusError, s.Status)
	assert.Equal(t, []string{
		"no adjacent nodes declared",
		"missing location",
		"minimap not set",
	}, s.Reasons)
}

func TestAuditAll_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*common.NodeRecord)
		status Status
		reason string
	}{
		{
			name:   "blank image reference",
			mutate: func(r *common.NodeRecord) { r.ImageRef = "   " },
			status: StatusError,
			reason: "missing image reference",
		},
		{
			name:   "short direction angles",
			mutate: func(r *common.NodeRecord) { r.DirectionAngles = angles(0, 90) },
			status: StatusWarning,
			reason: "expected 4 direction angles, found 2",
		},
		{
			name:   "no direction angles",
			mutate: func(r *common.NodeRecord) { r.DirectionAngles = nil },
			status: StatusWarning,
			reason: "missing direction angle for forward adjacency",
		},
		{
			name: "nil angle under populated slot",
			mutate: func(r *common.NodeRecord) {
				r.DirectionAngles[0] = nil
			},
			status: StatusWarning,
			reason: "missing direction angle for forward adjacency",
		},
		{
			name:   "placeholder minimap",
			mutate: func(r *common.NodeRecord) { m := common.UnsetMinimap; r.Minimap = &m },
			status: StatusWarning,
			reason: "minimap not set",
		},
		{
			name:   "nil minimap",
			mutate: func(r *common.NodeRecord) { r.Minimap = nil },
			status: StatusWarning,
			reason: "minimap not set",
		},
		{
			name: "unknown neighbour",
			mutate: func(r *common.NodeRecord) {
				r.Adjacency[common.Left] = common.NeighborSlot("404", 2)
			},
			status: StatusWarning,
			reason: "adjacent node '404' (left) does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := healthy("001", "002")
			tt.mutate(&rec)

			s := statusOf(t, AuditAll([]common.NodeRecord{rec, healthy("002", "001")}), "001")
			assert.Equal(t, tt.status, s.Status)
			assert.Contains(t, s.Reasons, tt.reason)
		})
	}
}

func TestAuditAll_NilAngleUnderEmptySlotIsFine(t *testing.T) {
	a := healthy("001", "002")
	a.DirectionAngles[common.Right] = nil

	s := statusOf(t, AuditAll([]common.NodeRecord{a, healthy("002", "001")}), "001")

	assert.Equal(t, StatusOK, s.Status)
}

func TestAuditAll_ReciprocityIgnoresWeightAndPosition(t *testing.T) {
	a := healthy("001")
	a.Adjacency[common.Forward] = common.NeighborSlot("002", 1)
	b := healthy("002")
	b.Adjacency[common.Right] = common.NeighborSlot("001", 9)

	statuses := AuditAll([]common.NodeRecord{a, b})

	assert.Equal(t, StatusOK, statuses[0].Status)
	assert.Equal(t, StatusOK, statuses[1].Status)
}

func TestAuditAll_OneSidedDeclaration(t *testing.T) {
	statuses := AuditAll([]common.NodeRecord{
		healthy("001", "002"),
		healthy("002", "003"),
		healthy("003", "002"),
	})

	s := statuses[0]
	assert.Equal(t, StatusWarning, s.Status)
	assert.Equal(t, []string{"adjacent node '002' (forward) does not link back"}, s.Reasons)
}

func TestAuditAll_IndependentOfGraphMembership(t *testing.T) {
	// Weights differ so no edge would be built, yet the audit is clean.
	a := healthy("001", "002")
	b := healthy("002")
	b.Adjacency[common.Forward] = common.NeighborSlot("001", 5)

	statuses := AuditAll([]common.NodeRecord{a, b})

	assert.Equal(t, StatusOK, statuses[0].Status)
	assert.Equal(t, StatusOK, statuses[1].Status)
}

func TestAuditAll_PreservesInputOrder(t *testing.T) {
	statuses := AuditAll([]common.NodeRecord{
		healthy("c", "a"),
		healthy("a", "c"),
		healthy("b"),
	})

	names := []string{statuses[0].Name, statuses[1].Name, statuses[2].Name}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestAuditAll_Empty(t *testing.T) {
	assert.Empty(t, AuditAll(nil))
}

func TestCountsAndHasErrors(t *testing.T) {
	statuses := []NodeStatus{
		{Name: "a", Status: StatusOK},
		{Name: "b", Status: StatusWarning},
		{Name: "c", Status: StatusWarning},
	}

	assert.False(t, HasErrors(statuses))
	assert.Equal(t, map[Status]int{StatusOK: 1, StatusWarning: 2, StatusError: 0}, Counts(statuses))

	statuses = append(statuses, NodeStatus{Name: "d", Status: StatusError})
	assert.True(t, HasErrors(statuses))
}

type stubSource struct {
	records []common.NodeRecord
	err     error
}

func (s stubSource) GetAllNodes(context.Context) ([]common.NodeRecord, error) {
	return s.records, s.err
}

func (s stubSource) GetNodeByName(context.Context, string) (common.NodeRecord, error) {
	return common.NodeRecord{}, s.err
}

func TestAuditor_Run(t *testing.T) {
	statuses, err := New(stubSource{records: []common.NodeRecord{
		healthy("001", "002"),
		healthy("002", "001"),
	}}).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, statuses, 2)
}

func TestAuditor_RunSourceError(t *testing.T) {
	boom := errors.New("db down")

	_, err := New(stubSource{err: boom}).Run(context.Background())

	assert.ErrorIs(t, err, boom)
}
