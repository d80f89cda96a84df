package httptransport

import "time"

// HasRoleRequest is the has_role RPC body.
type HasRoleRequest struct {
	SubjectID string `json:"subject_id"`
	RoleName  string `json:"role_name"`
}

// HasRoleResponse carries the RPC answer. Clients read only Result.
type HasRoleResponse struct {
	Result    bool      `json:"result"`
	CheckedAt time.Time `json:"checked_at"`
	CacheHit  bool      `json:"cache_hit"`
}

type RoleAssignmentDTO struct {
	AssignmentID string     `json:"assignment_id"`
	UserID       string     `json:"user_id"`
	RoleID       string     `json:"role_id"`
	RoleName     string     `json:"role_name"`
	AssignedBy   string     `json:"assigned_by"`
	Reason       string     `json:"reason"`
	AssignedAt   time.Time  `json:"assigned_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	IsActive     bool       `json:"is_active"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

type ListUserRolesResponse struct {
	UserID string              `json:"user_id"`
	Roles  []RoleAssignmentDTO `json:"roles"`
}

type GrantRoleRequest struct {
	RoleID    string     `json:"role_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

type GrantRoleResponse struct {
	AssignmentID string     `json:"assignment_id"`
	UserID       string     `json:"user_id"`
	RoleID       string     `json:"role_id"`
	AssignedAt   time.Time  `json:"assigned_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Replayed     bool       `json:"replayed"`
}

type RevokeRoleRequest struct {
	RoleID string `json:"role_id"`
	Reason string `json:"reason,omitempty"`
}

type RevokeRoleResponse struct {
	UserID    string     `json:"user_id"`
	RoleID    string     `json:"role_id"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	Replayed  bool       `json:"replayed"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
