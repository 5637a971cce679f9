package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type invitesRepo struct {
	pool *pgxpool.Pool
}

func (r *invitesRepo) GetInvite(ctx context.Context, ref domain.InviteRef) (domain.Invite, error) {
	var (
		inv         domain.Invite
		status      string
		sentAt      pgtype.Timestamptz
		emailID     pgtype.Text
		emailError  pgtype.Text
		attemptedAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, email, role, tenant_name, invited_by, status,
		        email_sent, email_sent_at, email_id, email_error, email_attempted_at
		 FROM invites WHERE tenant_id = $1 AND id = $2`,
		ref.TenantID, ref.InviteID,
	).Scan(
		&inv.ID, &inv.TenantID, &inv.Email, &inv.Role, &inv.TenantName, &inv.InvitedBy, &status,
		&inv.EmailSent, &sentAt, &emailID, &emailError, &attemptedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	inv.Status = domain.InviteStatus(status)
	inv.EmailSentAt = mapTimestamptz(sentAt)
	inv.EmailID = mapText(emailID)
	inv.EmailError = mapText(emailError)
	inv.EmailAttemptedAt = mapTimestamptz(attemptedAt)
	return inv, nil
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	status := inv.Status
	if status == "" {
		status = domain.InviteStatusPending
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invites (id, tenant_id, email, role, tenant_name, invited_by, status,
		                      email_sent, email_sent_at, email_id, email_error, email_attempted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		inv.ID, inv.TenantID, inv.Email, inv.Role, inv.TenantName, inv.InvitedBy, string(status),
		inv.EmailSent, mapOptionalTimestamptz(inv.EmailSentAt), mapTextNull(inv.EmailID),
		mapTextNull(inv.EmailError), mapOptionalTimestamptz(inv.EmailAttemptedAt),
	)
	return mapConflict(err)
}

func (r *invitesRepo) MarkInviteEmailSent(
	ctx context.Context,
	ref domain.InviteRef,
	emailID string,
	at time.Time,
) error {
	return requireAffected(r.pool.Exec(ctx,
		`UPDATE invites
		 SET email_sent = TRUE, email_sent_at = $1, email_id = $2, email_error = NULL
		 WHERE tenant_id = $3 AND id = $4`,
		at, mapTextNull(emailID), ref.TenantID, ref.InviteID,
	))
}

func (r *invitesRepo) MarkInviteEmailFailed(
	ctx context.Context,
	ref domain.InviteRef,
	message string,
	at time.Time,
) error {
	return requireAffected(r.pool.Exec(ctx,
		`UPDATE invites
		 SET email_error = $1, email_attempted_at = $2
		 WHERE tenant_id = $3 AND id = $4`,
		message, at, ref.TenantID, ref.InviteID,
	))
}
