package service

import "github.com/aussiebroadwan/taskmail/internal/notify/domain"

// Allows reports whether user accepts email of category c. Preferences are
// opt-out: only an explicit false blocks delivery.
func Allows(user domain.User, c domain.Category) bool {
	if user.EmailPreferences == nil {
		return true
	}
	return user.EmailPreferences.For(c).Enabled()
}
