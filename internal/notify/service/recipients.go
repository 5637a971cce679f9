package service

import (
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
)

// ResolveInvite returns the address an invite should be mailed to. It reports
// false for invites that are no longer pending or were already sent.
func ResolveInvite(inv domain.Invite) (string, bool) {
	if inv.Status != domain.InviteStatusPending || inv.EmailSent || inv.Email == "" {
		return "", false
	}
	return inv.Email, true
}

// ResolveAssignment returns the user to notify about a task update. Only a
// change to a non-empty assignee who is not the updater qualifies.
func ResolveAssignment(before, after domain.Task) (string, bool) {
	if after.AssignedTo == "" || after.AssignedTo == before.AssignedTo {
		return "", false
	}
	if after.AssignedTo == after.UpdatedBy {
		return "", false
	}
	return after.AssignedTo, true
}

// CommentRecipients is the audience of a new comment.
type CommentRecipients struct {
	UserIDs []string // Assignee first, then mentions; never the author
	Text    string   // Comment body with mention markup replaced

	mentioned map[string]struct{}
}

// Mentioned reports whether userID was mentioned, as opposed to only being
// the assignee.
func (c CommentRecipients) Mentioned(userID string) bool {
	_, ok := c.mentioned[userID]
	return ok
}

// ResolveComment unions the task assignee with the users mentioned in the
// comment, without the comment's author and without duplicates.
func ResolveComment(task domain.Task, comment domain.Comment) CommentRecipients {
	m := ExtractMentions(comment.Text, comment.CreatedBy)

	out := CommentRecipients{
		Text:      m.Text,
		mentioned: make(map[string]struct{}, len(m.UserIDs)),
	}
	seen := make(map[string]struct{})
	add := func(id string) {
		if id == "" || id == comment.CreatedBy {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out.UserIDs = append(out.UserIDs, id)
	}

	add(task.AssignedTo)
	for _, id := range m.UserIDs {
		out.mentioned[id] = struct{}{}
		add(id)
	}
	return out
}

// DueWindow returns [today 00:00, today+2 00:00) in loc, covering today and
// tomorrow. Day arithmetic goes through time.Date so DST shifts are honoured.
func DueWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), time.Date(y, m, d+2, 0, 0, 0, 0, loc)
}

// DayLabel names due relative to now: "today" when both share a calendar date
// in loc, otherwise "tomorrow".
func DayLabel(due, now time.Time, loc *time.Location) string {
	dy, dm, dd := due.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	if dy == ny && dm == nm && dd == nd {
		return DayToday
	}
	return DayTomorrow
}
