// Package model holds the wire types of the intranet API.
package model

// User is the authenticated account.
type User struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	EmployeeID *int   `json:"employee_id,omitempty"`
}

// ClearanceLevel is an access tier; Number orders the tiers.
type ClearanceLevel struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// Cluster is the top organisational unit.
type Cluster struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Department belongs to a cluster.
type Department struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Division belongs to a department.
type Division struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Position is a job title.
type Position struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Employee is a read-only employee profile. Every relation is either fully
// populated or nil.
type Employee struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	IsActive       bool            `json:"is_active"`
	ClearanceLevel *ClearanceLevel `json:"clearance_level"`
	Cluster        *Cluster        `json:"cluster"`
	Department     *Department     `json:"department"`
	Division       *Division       `json:"division"`
	Position       *Position       `json:"position"`
	ProfilePicture *string         `json:"profile_picture"`
}

// PlaceholderEmployeeName is shown when the real profile could not be loaded.
const PlaceholderEmployeeName = "Сотрудник"

// PlaceholderEmployee returns the stand-in profile used when the caller's own
// profile cannot be fetched but a user is signed in.
func PlaceholderEmployee() *Employee {
	return &Employee{
		ID:       0,
		Name:     PlaceholderEmployeeName,
		IsActive: true,
	}
}

// IsPlaceholder reports whether e is the stand-in profile.
func (e *Employee) IsPlaceholder() bool {
	return e != nil && e.ID == 0 && e.Name == PlaceholderEmployeeName &&
		e.ClearanceLevel == nil && e.Cluster == nil && e.Department == nil &&
		e.Division == nil && e.Position == nil && e.ProfilePicture == nil
}

// LoginResponse is returned by the login endpoint.
type LoginResponse struct {
	Access   string    `json:"access"`
	Refresh  string    `json:"refresh,omitempty"`
	User     User      `json:"user"`
	Employee *Employee `json:"employee,omitempty"`
}

// RefreshResponse is returned by the token renewal endpoint.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
