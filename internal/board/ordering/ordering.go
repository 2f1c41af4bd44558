// Package ordering computes task positions within a board column.
//
// A partition is the ordered list of live tasks sharing a board and status.
// Every function here is pure: callers load partitions, ask for a plan and
// persist only the Placements the plan returns.
package ordering

import (
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// Ref identifies a task and the position currently stored for it.
type Ref struct {
	ID       string
	Position int
}

// Placement is a single row write: the task ends up at Position in Status.
type Placement struct {
	ID       string
	Status   v1.TaskStatus
	Position int
}

// Clamp bounds target to [0, n].
func Clamp(target, n int) int {
	if target < 0 {
		return 0
	}
	if target > n {
		return n
	}
	return target
}

// Without returns partition with id removed, preserving order.
func Without(partition []Ref, id string) []Ref {
	out := make([]Ref, 0, len(partition))
	for _, r := range partition {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// Renumber returns a copy of partition with Position set to each index.
func Renumber(partition []Ref) []Ref {
	out := make([]Ref, len(partition))
	for i, r := range partition {
		out[i] = Ref{ID: r.ID, Position: i}
	}
	return out
}

// Reorder inserts movingID into partition at target (clamped against the
// partition without movingID) and renumbers the result from zero.
func Reorder(partition []Ref, movingID string, target int) []Ref {
	rest := Without(partition, movingID)
	at := Clamp(target, len(rest))

	out := make([]Ref, 0, len(rest)+1)
	out = append(out, rest[:at]...)
	out = append(out, Ref{ID: movingID})
	out = append(out, rest[at:]...)
	return Renumber(out)
}

// Diff returns the placements in after whose position differs from the one
// stored in before. IDs absent from before are always included.
func Diff(before, after []Ref, status v1.TaskStatus) []Placement {
	stored := make(map[string]int, len(before))
	for _, r := range before {
		stored[r.ID] = r.Position
	}

	var out []Placement
	for _, r := range after {
		if pos, ok := stored[r.ID]; ok && pos == r.Position {
			continue
		}
		out = append(out, Placement{ID: r.ID, Status: status, Position: r.Position})
	}
	return out
}

// Compact removes id from partition, renumbers what is left and returns the
// writes needed to close the gap.
func Compact(partition []Ref, id string, status v1.TaskStatus) []Placement {
	rest := Without(partition, id)
	return Diff(rest, Renumber(rest), status)
}
