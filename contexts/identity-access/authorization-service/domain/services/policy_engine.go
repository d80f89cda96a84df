package services

import (
	"time"

	"vendorhub/contexts/identity-access/authorization-service/domain/entities"
)

// GrantsPermission reports whether permission is in the effective set.
func GrantsPermission(permissions []string, permission string) bool {
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HoldsRole reports whether any assignment is an active, unexpired grant of roleName.
func HoldsRole(assignments []entities.RoleAssignment, roleName string, now time.Time) bool {
	for _, assignment := range assignments {
		if !assignment.IsActive || assignment.RoleName != roleName {
			continue
		}
		if assignment.ExpiresAt != nil && !assignment.ExpiresAt.After(now) {
			continue
		}
		return true
	}
	return false
}
