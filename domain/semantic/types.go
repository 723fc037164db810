// Package semantic defines the fixed set of business roles that dashboard
// templates reference instead of raw column names, and the mapping from
// roles to dataset columns.
package semantic

import "sort"

// Role is a fixed semantic category a column can be bound to.
type Role string

const (
	RoleDate         Role = "date"
	RoleAmount       Role = "amount"
	RoleCategory     Role = "category"
	RoleAccount      Role = "account"
	RoleDescription  Role = "description"
	RoleCounterparty Role = "counterparty"
)

// AllRoles returns the closed role set in sorted order. Mapper iteration
// follows this order so tie-breaks are deterministic.
func AllRoles() []Role {
	roles := []Role{
		RoleAccount,
		RoleAmount,
		RoleCategory,
		RoleCounterparty,
		RoleDate,
		RoleDescription,
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Binding records which column a role resolved to and why.
type Binding struct {
	Column     string  `json:"column"`
	Confidence float64 `json:"confidence"`
	MatchedBy  string  `json:"matched_by"`
}

// FieldMapping maps roles to column bindings. A role that could not be
// bound with sufficient confidence is simply absent.
type FieldMapping map[Role]Binding

// Column returns the bound column for a role, if any.
func (m FieldMapping) Column(role Role) (string, bool) {
	b, ok := m[role]
	if !ok {
		return "", false
	}
	return b.Column, true
}

// Has reports whether every given role is bound.
func (m FieldMapping) Has(roles ...Role) bool {
	for _, r := range roles {
		if _, ok := m[r]; !ok {
			return false
		}
	}
	return true
}

// Missing returns the subset of roles that are not bound, in input order.
func (m FieldMapping) Missing(roles []Role) []Role {
	var missing []Role
	for _, r := range roles {
		if _, ok := m[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}
