package entities

const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

// Role models a permission bundle that can be assigned to users.
type Role struct {
	RoleID      string   `json:"role_id"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

// BaselineRoles are the roles every store starts with.
func BaselineRoles() []Role {
	return []Role{
		{
			RoleID:      RoleCustomer,
			RoleName:    RoleCustomer,
			Permissions: []string{"vendor.view"},
		},
		{
			RoleID:      RoleVendor,
			RoleName:    RoleVendor,
			Permissions: []string{"vendor.view", "vendor.update_own"},
		},
		{
			RoleID:   RoleAdmin,
			RoleName: RoleAdmin,
			Permissions: []string{
				"vendor.view",
				"vendor.update",
				"vendor.close_deal",
				"user.grant_role",
				"user.revoke_role",
			},
		},
	}
}
