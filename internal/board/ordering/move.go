package ordering

import (
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// Move describes a requested relocation of one task.
type Move struct {
	TaskID       string
	FromStatus   v1.TaskStatus
	FromPosition int
	ToStatus     v1.TaskStatus
	ToPosition   int
}

// Plan is the outcome of PlanMove.
type Plan struct {
	// NoOp is set when the task already sits at the requested slot.
	NoOp bool
	// Position is the clamped index the task ends up at.
	Position int
	// Destination and Source hold the final order of the touched columns.
	// Source is nil when the move stays within one column.
	Destination []Ref
	Source      []Ref
	// Writes lists only the rows whose status or position changes.
	Writes []Placement
}

// PlanMove computes the final order of the destination column and, for
// cross-column moves, the source column.
//
// destination and source are the live partitions ordered by stored
// position; either may still contain the moving task. source is ignored when
// the move stays within one column.
func PlanMove(m Move, destination, source []Ref) Plan {
	rest := Without(destination, m.TaskID)
	at := Clamp(m.ToPosition, len(rest))

	sameColumn := m.FromStatus == m.ToStatus
	if sameColumn && at == m.FromPosition && isContiguousAround(destination, m.TaskID, at) {
		return Plan{NoOp: true, Position: at, Destination: Renumber(destination)}
	}

	dest := Reorder(rest, m.TaskID, at)
	plan := Plan{Position: at, Destination: dest}

	if sameColumn {
		plan.Writes = Diff(destination, dest, m.ToStatus)
		return plan
	}

	// rest has no entry for the moving task, so its status change is
	// always part of the writes.
	plan.Writes = Diff(rest, dest, m.ToStatus)

	srcRest := Without(source, m.TaskID)
	plan.Source = Renumber(srcRest)
	plan.Writes = append(plan.Writes, Diff(srcRest, plan.Source, m.FromStatus)...)
	return plan
}

// isContiguousAround reports whether the stored positions of partition
// already equal their indexes and the task with id sits at index at. Only
// then is leaving everything untouched equivalent to renumbering.
func isContiguousAround(partition []Ref, id string, at int) bool {
	for i, r := range partition {
		if r.Position != i {
			return false
		}
		if r.ID == id && i != at {
			return false
		}
	}
	return true
}
