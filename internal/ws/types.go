package ws

const (
	// client - server
	MsgAuthenticate = "authenticate"

	// server - client
	EventAuthenticated = "authenticated"
	EventAuthError     = "authentication_error"
	EventTaskCreated   = "task:created"
	EventTaskUpdated   = "task:updated"
	EventTaskDeleted   = "task:deleted"
	EventTaskAssigned  = "task:assigned"
)
