// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authz maps identity-provider group membership to dashboard
// capabilities. The role table is closed and static: unknown groups grant
// nothing, and the permission universe cannot grow at runtime.
package authz

import "sort"

// Permission is a capability tag granted to an authenticated identity.
type Permission string

const (
	PermViewInstances     Permission = "view_instances"
	PermViewCosts         Permission = "view_costs"
	PermViewCompliance    Permission = "view_compliance"
	PermViewMonitoring    Permission = "view_monitoring"
	PermExecuteOperations Permission = "execute_operations"
	PermApproveOperations Permission = "approve_operations"
	PermManageUsers       Permission = "manage_users"
)

// AllPermissions is the fixed permission universe.
var AllPermissions = []Permission{
	PermViewInstances,
	PermViewCosts,
	PermViewCompliance,
	PermViewMonitoring,
	PermExecuteOperations,
	PermApproveOperations,
	PermManageUsers,
}

// Group names as issued by the identity provider.
const (
	GroupAdmin    = "Admin"
	GroupDBA      = "DBA"
	GroupReadOnly = "ReadOnly"
)

// permissionsForGroup returns the capability set for a single group.
// The switch is the closed role table: Admin ⊇ DBA ⊇ ReadOnly, and a group
// name outside the table grants nothing.
func permissionsForGroup(group string) []Permission {
	switch group {
	case GroupAdmin:
		return []Permission{
			PermViewInstances,
			PermViewCosts,
			PermViewCompliance,
			PermViewMonitoring,
			PermExecuteOperations,
			PermApproveOperations,
			PermManageUsers,
		}
	case GroupDBA:
		return []Permission{
			PermViewInstances,
			PermViewCosts,
			PermViewCompliance,
			PermViewMonitoring,
			PermExecuteOperations,
		}
	case GroupReadOnly:
		return []Permission{
			PermViewInstances,
			PermViewCosts,
			PermViewCompliance,
			PermViewMonitoring,
		}
	default:
		return nil
	}
}

// PermissionsForGroups returns the deduplicated union of capabilities over
// all of the identity's groups. The result is sorted so callers can treat
// it as a canonical set; order of the input groups never matters.
func PermissionsForGroups(groups []string) []Permission {
	seen := make(map[Permission]struct{})
	for _, g := range groups {
		for _, p := range permissionsForGroup(g) {
			seen[p] = struct{}{}
		}
	}

	out := make([]Permission, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasPermission reports whether the set contains the permission.
func HasPermission(set []Permission, p Permission) bool {
	for _, have := range set {
		if have == p {
			return true
		}
	}
	return false
}
