package domain

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	InviteStatusExpired  InviteStatus = "expired"
	InviteStatusRevoked  InviteStatus = "revoked"
)

// Invite carries its own delivery state. It is the only document the
// notifier writes to.
type Invite struct {
	ID         string
	TenantID   string
	Email      string
	Role       string
	TenantName string
	InvitedBy  string
	Status     InviteStatus

	EmailSent        bool
	EmailSentAt      *time.Time
	EmailID          string // Delivery id returned by the mail provider
	EmailError       string // Last delivery error, empty after a successful send
	EmailAttemptedAt *time.Time
}

// InviteRef addresses an invite document.
type InviteRef struct {
	TenantID string
	InviteID string
}

func (i Invite) Ref() InviteRef {
	return InviteRef{TenantID: i.TenantID, InviteID: i.ID}
}
