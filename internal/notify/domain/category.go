package domain

// Category is the closed set of notification kinds a user can opt out of.
type Category string

const (
	CategoryTaskAssigned Category = "taskAssigned"
	CategoryDueReminders Category = "dueReminders"
	CategoryComments     Category = "comments"
)

// Categories lists every category in a stable order.
func Categories() []Category {
	return []Category{CategoryTaskAssigned, CategoryDueReminders, CategoryComments}
}
