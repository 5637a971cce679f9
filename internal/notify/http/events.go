package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/aussiebroadwan/taskmail/internal/notify/service"
	"github.com/aussiebroadwan/taskmail/internal/notify/store"
	"github.com/aussiebroadwan/taskmail/pkg/httpx"
	"github.com/aussiebroadwan/taskmail/pkg/notifysdk"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
	"github.com/go-playground/validator/v10"
)

const maxEventBytes = 1 << 20

// errBadEvent marks payload problems the platform must not retry.
var errBadEvent = errors.New("bad event")

type EventsHandler struct {
	Dispatcher *service.Dispatcher
	Store      store.Store
	Validate   *validator.Validate
}

// ServeHTTP godoc
//
//	@Summary		Deliver Document Event
//	@Description	Hands one document event to the dispatch engine. Skipped events are successes.
//	@Description	A 5xx response tells the platform to redeliver the event.
//	@Tags			Events
//	@Accept			json
//	@Produce		json
//	@Param			event	body		notifysdk.Event				true	"Event envelope"
//	@Success		200		{object}	notifysdk.DispatchResponse	"dispatch result"
//	@Failure		400		{object}	notifysdk.ErrorResponse		"malformed event"
//	@Failure		401		{object}	notifysdk.ErrorResponse		"invalid token"
//	@Failure		500		{object}	notifysdk.ErrorResponse		"dispatch failed"
//	@Security		BearerAuth
//	@Router			/v1/events [post].
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Decode and validate the envelope
	var ev notifysdk.Event
	if err := httpx.DecodeJSON(w, r, maxEventBytes, &ev); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, notifysdk.ErrorCodeInvalidRequest, err.Error())
		return
	}
	if err := h.Validate.Struct(ev); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, notifysdk.ErrorCodeInvalidRequest, err.Error())
		return
	}

	// 2. Dispatch by type
	res, err := h.dispatch(ctx, ev)
	if errors.Is(err, errBadEvent) {
		log.Warn("rejected event", slog.String("event_id", ev.ID), slog.Any("error", err))
		httpx.WriteError(w, http.StatusBadRequest, notifysdk.ErrorCodeInvalidRequest, err.Error())
		return
	}
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, notifysdk.ErrorCodeDispatchFailed, err.Error())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dispatchResponse(ev.ID, res))
}

func (h *EventsHandler) dispatch(ctx context.Context, ev notifysdk.Event) (service.Result, error) {
	p := ev.Params
	switch ev.Type {
	case notifysdk.EventInviteCreated:
		if p.InviteID == "" {
			return service.Result{}, fmt.Errorf("%w: params.inviteId is required", errBadEvent)
		}
		inv, err := h.invite(ctx, ev)
		if errors.Is(err, store.ErrNotFound) {
			return skipped(service.KindInvite, "invite not found"), nil
		}
		if err != nil {
			return service.Result{}, err
		}
		return h.Dispatcher.InviteCreated(ctx, ev.ID, inv)

	case notifysdk.EventTaskUpdated:
		if p.ProjectID == "" || p.TaskID == "" {
			return service.Result{}, fmt.Errorf("%w: params.projectId and params.taskId are required", errBadEvent)
		}
		before, err := decodeSnapshot[notifysdk.TaskSnapshot](h.Validate, ev.Before)
		if err != nil {
			return service.Result{}, fmt.Errorf("%w: before: %w", errBadEvent, err)
		}
		after, err := decodeSnapshot[notifysdk.TaskSnapshot](h.Validate, ev.After)
		if err != nil {
			return service.Result{}, fmt.Errorf("%w: after: %w", errBadEvent, err)
		}
		return h.Dispatcher.TaskUpdated(ctx, ev.ID, taskFromSnapshot(p, before), taskFromSnapshot(p, after))

	case notifysdk.EventCommentCreated:
		if p.ProjectID == "" || p.TaskID == "" || p.CommentID == "" {
			return service.Result{}, fmt.Errorf("%w: params.projectId, params.taskId and params.commentId are required", errBadEvent)
		}
		comment, err := h.comment(ctx, ev)
		if errors.Is(err, store.ErrNotFound) {
			return skipped(service.KindComment, "comment not found"), nil
		}
		if err != nil {
			return service.Result{}, err
		}
		return h.Dispatcher.CommentCreated(ctx, ev.ID, comment)
	}

	return service.Result{}, fmt.Errorf("%w: unsupported type %q", errBadEvent, ev.Type)
}

// invite uses the snapshot when present and loads the document otherwise.
func (h *EventsHandler) invite(ctx context.Context, ev notifysdk.Event) (domain.Invite, error) {
	snap, err := decodeSnapshot[notifysdk.InviteSnapshot](h.Validate, ev.After)
	if err == nil {
		return inviteFromSnapshot(ev.Params, snap), nil
	}
	if !errors.Is(err, errMissingSnapshot) {
		return domain.Invite{}, fmt.Errorf("%w: after: %w", errBadEvent, err)
	}

	inv, err := h.Store.Invites().GetInvite(ctx, domain.InviteRef{TenantID: ev.Params.TenantID, InviteID: ev.Params.InviteID})
	if err != nil {
		return domain.Invite{}, fmt.Errorf("load invite: %w", err)
	}
	return inv, nil
}

func (h *EventsHandler) comment(ctx context.Context, ev notifysdk.Event) (domain.Comment, error) {
	snap, err := decodeSnapshot[notifysdk.CommentSnapshot](h.Validate, ev.After)
	if err == nil {
		return commentFromSnapshot(ev.Params, snap), nil
	}
	if !errors.Is(err, errMissingSnapshot) {
		return domain.Comment{}, fmt.Errorf("%w: after: %w", errBadEvent, err)
	}

	p := ev.Params
	c, err := h.Store.Comments().GetComment(ctx, p.TenantID, p.ProjectID, p.TaskID, p.CommentID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("load comment: %w", err)
	}
	return c, nil
}

// skipped reports an event whose document vanished before it was handled.
func skipped(kind service.Kind, reason string) service.Result {
	return service.Result{Kind: kind, State: service.StateSkipped, Reason: reason}
}

func dispatchResponse(eventID string, res service.Result) notifysdk.DispatchResponse {
	return notifysdk.DispatchResponse{
		EventID: eventID,
		Kind:    string(res.Kind),
		State:   string(res.State),
		Sent:    res.Sent,
		Skipped: res.Skipped,
		Failed:  res.Failed,
		Reason:  res.Reason,
	}
}
