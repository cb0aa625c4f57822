package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/store"
)

type Status string

const (
	StatusOK      Status = "OK"
	StatusWarning Status = "WARNING"
	StatusError   Status = "ERROR"
)

// NodeStatus is the audit result for a single node record.
type NodeStatus struct {
	Name    string   `json:"name"`
	Status  Status   `json:"status"`
	Reasons []string `json:"reasons"`
}

// HasErrors reports whether any status in statuses is StatusError.
func HasErrors(statuses []NodeStatus) bool {
	for _, s := range statuses {
		if s.Status == StatusError {
			return true
		}
	}
	return false
}

// Counts returns the number of statuses per severity.
func Counts(statuses []NodeStatus) map[Status]int {
	counts := map[Status]int{StatusOK: 0, StatusWarning: 0, StatusError: 0}
	for _, s := range statuses {
		counts[s.Status]++
	}
	return counts
}

type finding struct {
	reasons  []string
	hasError bool
}

func (f *finding) fail(reason string) {
	f.reasons = append(f.reasons, reason)
	f.hasError = true
}

func (f *finding) warn(reason string) {
	f.reasons = append(f.reasons, reason)
}

func (f *finding) status() Status {
	switch {
	case f.hasError:
		return StatusError
	case len(f.reasons) > 0:
		return StatusWarning
	default:
		return StatusOK
	}
}

// AuditAll evaluates every record independently of graph membership and
// returns one status per record in input order. It never fails; every
// finding is reported as a reason.
func AuditAll(records []common.NodeRecord) []NodeStatus {
	byName := make(map[string]*common.NodeRecord, len(records))
	for i := range records {
		if _, dup := byName[records[i].Name]; !dup {
			byName[records[i].Name] = &records[i]
		}
	}

	statuses := make([]NodeStatus, 0, len(records))
	for i := range records {
		statuses = append(statuses, auditNode(&records[i], byName))
	}
	return statuses
}

func auditNode(node *common.NodeRecord, byName map[string]*common.NodeRecord) NodeStatus {
	var f finding

	if strings.TrimSpace(node.ImageRef) == "" {
		f.fail("missing image reference")
	}
	if node.Adjacency.Populated() == 0 {
		f.fail("no adjacent nodes declared")
	}

	if strings.TrimSpace(node.Location) == "" {
		f.warn("missing location")
	}

	if n := len(node.DirectionAngles); n < common.SlotCount {
		f.warn(fmt.Sprintf("expected %d direction angles, found %d", common.SlotCount, n))
	}
	for i, slot := range node.Adjacency {
		if slot.IsEmpty() {
			continue
		}
		if i >= len(node.DirectionAngles) || node.DirectionAngles[i] == nil {
			f.warn(fmt.Sprintf("missing direction angle for %s adjacency", common.Directions[i]))
		}
	}

	if node.Minimap.IsUnset() {
		f.warn("minimap not set")
	}

	for i, slot := range node.Adjacency {
		neighbourName, _, ok := slot.Neighbor()
		if !ok {
			continue
		}
		dir := common.Directions[i]
		neighbour, known := byName[neighbourName]
		if !known {
			f.warn(fmt.Sprintf("adjacent node '%s' (%s) does not exist", neighbourName, dir))
			continue
		}
		if !neighbour.Adjacency.Declares(node.Name) {
			f.warn(fmt.Sprintf("adjacent node '%s' (%s) does not link back", neighbourName, dir))
		}
	}

	reasons := f.reasons
	if reasons == nil {
		reasons = []string{}
	}
	return NodeStatus{Name: node.Name, Status: f.status(), Reasons: reasons}
}

// Auditor audits snapshots taken from a node source.
type Auditor struct {
	source store.NodeSource
}

func New(source store.NodeSource) *Auditor {
	return &Auditor{source: source}
}

// Run loads a fresh snapshot and audits it. Only loading can fail.
func (a *Auditor) Run(ctx context.Context) ([]NodeStatus, error) {
	records, err := a.source.GetAllNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	return AuditAll(records), nil
}
