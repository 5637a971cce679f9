package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
)

type invitesRepo struct {
	db *sql.DB
}

func (r *invitesRepo) GetInvite(ctx context.Context, ref domain.InviteRef) (domain.Invite, error) {
	var (
		inv         domain.Invite
		status      string
		sentAt      sql.NullInt64
		emailID     sql.NullString
		emailError  sql.NullString
		attemptedAt sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, email, role, tenant_name, invited_by, status,
		        email_sent, email_sent_at, email_id, email_error, email_attempted_at
		 FROM invites WHERE tenant_id = ? AND id = ?`,
		ref.TenantID, ref.InviteID,
	).Scan(
		&inv.ID, &inv.TenantID, &inv.Email, &inv.Role, &inv.TenantName, &inv.InvitedBy, &status,
		&inv.EmailSent, &sentAt, &emailID, &emailError, &attemptedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	inv.Status = domain.InviteStatus(status)
	inv.EmailSentAt = mapNullMillis(sentAt)
	inv.EmailID = mapNullString(emailID)
	inv.EmailError = mapNullString(emailError)
	inv.EmailAttemptedAt = mapNullMillis(attemptedAt)
	return inv, nil
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	status := inv.Status
	if status == "" {
		status = domain.InviteStatusPending
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invites (id, tenant_id, email, role, tenant_name, invited_by, status,
		                      email_sent, email_sent_at, email_id, email_error, email_attempted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TenantID, inv.Email, inv.Role, inv.TenantName, inv.InvitedBy, string(status),
		inv.EmailSent, mapOptionalMillis(inv.EmailSentAt), mapStringNull(inv.EmailID),
		mapStringNull(inv.EmailError), mapOptionalMillis(inv.EmailAttemptedAt),
	)
	return mapConflict(err)
}

func (r *invitesRepo) MarkInviteEmailSent(
	ctx context.Context,
	ref domain.InviteRef,
	emailID string,
	at time.Time,
) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE invites
		 SET email_sent = 1, email_sent_at = ?, email_id = ?, email_error = NULL
		 WHERE tenant_id = ? AND id = ?`,
		at.UnixMilli(), mapStringNull(emailID), ref.TenantID, ref.InviteID,
	))
}

func (r *invitesRepo) MarkInviteEmailFailed(
	ctx context.Context,
	ref domain.InviteRef,
	message string,
	at time.Time,
) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE invites
		 SET email_error = ?, email_attempted_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		message, at.UnixMilli(), ref.TenantID, ref.InviteID,
	))
}
