// Package events defines the board and task event subjects published on the
// event bus.
package events

// Event types for boards
const (
	BoardCreated = "board.created"
	BoardUpdated = "board.updated"
	BoardDeleted = "board.deleted"
)

// Event types for tasks
const (
	TaskCreated  = "task.created"
	TaskUpdated  = "task.updated"
	TaskMoved    = "task.moved"
	TaskDeleted  = "task.deleted"
	TaskRestored = "task.restored"
)

// Wildcard subjects covering every board or task event.
const (
	BoardWildcard = "board.>"
	TaskWildcard  = "task.>"
)
