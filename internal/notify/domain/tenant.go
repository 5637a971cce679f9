package domain

// Tenant is an isolated organizational namespace that owns projects.
type Tenant struct {
	ID   string
	Name string
	Slug string
}

// Project belongs to exactly one tenant.
type Project struct {
	ID       string
	TenantID string
	Title    string
}

// Placeholder display values used when a referenced document is missing.
const (
	UnknownTenantName   = "Unknown Workspace"
	UnknownProjectTitle = "Unknown Project"
	UnknownUserName     = "Someone"
)
