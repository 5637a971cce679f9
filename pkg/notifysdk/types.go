package notifysdk

import (
	"encoding/json"
	"time"
)

// Scopes accepted by the service.
const (
	ScopeEventsWrite = "events:write"
	ScopeJobsRun     = "jobs:run"
)

// EventType names the document change that produced an event.
type EventType string

const (
	EventInviteCreated  EventType = "invite.created"
	EventTaskUpdated    EventType = "task.updated"
	EventCommentCreated EventType = "comment.created"
)

// Event is the envelope the platform posts to /v1/events. Before and After
// carry document snapshots; After may be omitted for created events, in which
// case the service loads the document addressed by Params.
type Event struct {
	ID     string          `json:"id"     validate:"required"`
	Type   EventType       `json:"type"   validate:"required,oneof=invite.created task.updated comment.created"`
	Params EventParams     `json:"params"`
	Before json.RawMessage `json:"before,omitempty" swaggertype:"object"`
	After  json.RawMessage `json:"after,omitempty"  swaggertype:"object"`
}

// EventParams are the path segments of the changed document.
type EventParams struct {
	TenantID  string `json:"tenantId"            validate:"required"`
	ProjectID string `json:"projectId,omitempty"`
	TaskID    string `json:"taskId,omitempty"`
	InviteID  string `json:"inviteId,omitempty"`
	CommentID string `json:"commentId,omitempty"`
}

// TaskSnapshot is a task document as the platform sends it.
type TaskSnapshot struct {
	ID          string     `json:"id,omitempty"`
	ProjectID   string     `json:"projectId,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	Priority    string     `json:"priority,omitempty"  validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      string     `json:"status,omitempty"`
	UpdatedBy   string     `json:"updatedBy,omitempty"`
}

// CommentSnapshot is a comment document as the platform sends it.
type CommentSnapshot struct {
	ID        string `json:"id,omitempty"`
	TaskID    string `json:"taskId,omitempty"`
	Text      string `json:"text"`
	CreatedBy string `json:"createdBy" validate:"required"`
}

// InviteSnapshot is an invite document as the platform sends it.
type InviteSnapshot struct {
	ID         string `json:"id,omitempty"`
	TenantID   string `json:"tenantId,omitempty"`
	Email      string `json:"email"      validate:"omitempty,email"`
	Role       string `json:"role,omitempty"`
	TenantName string `json:"tenantName,omitempty"`
	InvitedBy  string `json:"invitedBy,omitempty"`
	Status     string `json:"status"     validate:"required"`
	EmailSent  bool   `json:"emailSent"`
}

// DispatchResponse reports how one event was handled.
type DispatchResponse struct {
	EventID string `json:"eventId"`
	Kind    string `json:"kind"`
	State   string `json:"state"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Reason  string `json:"reason,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
