package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/pkg/notifysdk"
	"github.com/go-playground/validator/v10"
)

var errMissingSnapshot = errors.New("snapshot missing")

// decodeSnapshot decodes and validates raw into T. An absent or null
// snapshot reports errMissingSnapshot.
func decodeSnapshot[T any](v *validator.Validate, raw json.RawMessage) (T, error) {
	var out T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, errMissingSnapshot
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := v.Struct(out); err != nil {
		return out, err
	}
	return out, nil
}

// The document path in the event params is authoritative over ids the
// snapshot may or may not repeat.

func taskFromSnapshot(p notifysdk.EventParams, s notifysdk.TaskSnapshot) domain.Task {
	return domain.Task{
		ID:          p.TaskID,
		TenantID:    p.TenantID,
		ProjectID:   p.ProjectID,
		Title:       s.Title,
		Description: s.Description,
		AssignedTo:  s.AssignedTo,
		Priority:    domain.Priority(s.Priority),
		DueDate:     s.DueDate,
		Status:      domain.TaskStatus(s.Status),
		UpdatedBy:   s.UpdatedBy,
	}
}

func commentFromSnapshot(p notifysdk.EventParams, s notifysdk.CommentSnapshot) domain.Comment {
	return domain.Comment{
		ID:        p.CommentID,
		TenantID:  p.TenantID,
		ProjectID: p.ProjectID,
		TaskID:    p.TaskID,
		Text:      s.Text,
		CreatedBy: s.CreatedBy,
	}
}

func inviteFromSnapshot(p notifysdk.EventParams, s notifysdk.InviteSnapshot) domain.Invite {
	return domain.Invite{
		ID:         p.InviteID,
		TenantID:   p.TenantID,
		Email:      s.Email,
		Role:       s.Role,
		TenantName: s.TenantName,
		InvitedBy:  s.InvitedBy,
		Status:     domain.InviteStatus(s.Status),
		EmailSent:  s.EmailSent,
	}
}
