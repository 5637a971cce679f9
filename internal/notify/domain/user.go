package domain

import (
	"bytes"
	"encoding/json"
)

type User struct {
	ID               string
	Name             string
	Email            string
	EmailPreferences *EmailPreferences // nil when the user never saved preferences
}

// DisplayName returns the user's name, falling back to their email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return UnknownUserName
}

// EmailPreferences is stored as a JSON document so the opt-out semantics of
// the source documents survive a round trip.
type EmailPreferences struct {
	TaskAssigned Preference `json:"taskAssigned,omitempty"`
	DueReminders Preference `json:"dueReminders,omitempty"`
	Comments     Preference `json:"comments,omitempty"`
}

// For returns the preference stored for c. Unknown categories are unset.
func (p EmailPreferences) For(c Category) Preference {
	switch c {
	case CategoryTaskAssigned:
		return p.TaskAssigned
	case CategoryDueReminders:
		return p.DueReminders
	case CategoryComments:
		return p.Comments
	default:
		return PreferenceUnset
	}
}

// Preference is a default-on email toggle. Only an explicit JSON false turns
// it off; absent fields, null and any other value leave it on.
type Preference int8

const (
	PreferenceUnset Preference = iota
	PreferenceOn
	PreferenceOff
)

// Enabled reports whether the toggle allows email.
func (p Preference) Enabled() bool { return p != PreferenceOff }

func (p *Preference) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "false":
		*p = PreferenceOff
	case "true":
		*p = PreferenceOn
	default:
		*p = PreferenceUnset
	}
	return nil
}

func (p Preference) MarshalJSON() ([]byte, error) {
	switch p {
	case PreferenceOff:
		return []byte("false"), nil
	case PreferenceOn:
		return []byte("true"), nil
	default:
		return []byte("null"), nil
	}
}

// ParseEmailPreferences decodes a stored preferences document. An empty
// document yields nil.
func ParseEmailPreferences(raw []byte) (*EmailPreferences, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	var prefs EmailPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}
