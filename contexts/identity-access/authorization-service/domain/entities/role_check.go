package entities

import "time"

// RoleCheck is the answer to has_role(subject, role).
type RoleCheck struct {
	SubjectID string    `json:"subject_id"`
	RoleName  string    `json:"role_name"`
	HasRole   bool      `json:"has_role"`
	CheckedAt time.Time `json:"checked_at"`
	CacheHit  bool      `json:"cache_hit"`
}
