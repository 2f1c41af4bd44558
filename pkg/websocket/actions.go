package websocket

// Client request actions.
const (
	ActionHealthCheck = "health.check"

	ActionBoardSubscribe   = "board.subscribe"
	ActionBoardUnsubscribe = "board.unsubscribe"

	ActionBoardList = "board.list"
	ActionTaskList  = "task.list"
	ActionTaskMove  = "task.move"
)

// Server push actions. They share names with the event bus subjects.
const (
	ActionBoardCreated = "board.created"
	ActionBoardUpdated = "board.updated"
	ActionBoardDeleted = "board.deleted"
	ActionTaskCreated  = "task.created"
	ActionTaskUpdated  = "task.updated"
	ActionTaskMoved    = "task.moved"
	ActionTaskDeleted  = "task.deleted"
	ActionTaskRestored = "task.restored"
)

// Error codes
const (
	ErrorCodeBadRequest    = "BAD_REQUEST"
	ErrorCodeNotFound      = "NOT_FOUND"
	ErrorCodeInternalError = "INTERNAL_ERROR"
	ErrorCodeUnauthorized  = "UNAUTHORIZED"
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeUnavailable   = "UNAVAILABLE"
	ErrorCodeUnknownAction = "UNKNOWN_ACTION"
)
