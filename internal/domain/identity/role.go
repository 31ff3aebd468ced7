package identity

// Role represents the access level of a user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Permission strings checked by the HTTP permission middleware
const (
	PermCustomerRead  = "customer:read"
	PermCustomerWrite = "customer:write"
	PermInvoiceRead   = "invoice:read"
	PermInvoiceWrite  = "invoice:write"
	PermPaymentRead   = "payment:read"
	PermPaymentCreate = "payment:create"
	PermDashboardRead = "dashboard:read"
	PermUserManage    = "user:manage"
)

var staffPermissions = []string{
	PermCustomerRead,
	PermInvoiceRead,
	PermPaymentRead,
	PermPaymentCreate,
	PermDashboardRead,
}

var adminPermissions = append([]string{
	PermCustomerWrite,
	PermInvoiceWrite,
	PermUserManage,
}, staffPermissions...)

// IsValid returns true for a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Permissions returns the permission set granted by the role.
// Unknown roles get no permissions.
func (r Role) Permissions() []string {
	switch r {
	case RoleAdmin:
		perms := make([]string, len(adminPermissions))
		copy(perms, adminPermissions)
		return perms
	case RoleStaff:
		perms := make([]string, len(staffPermissions))
		copy(perms, staffPermissions)
		return perms
	default:
		return nil
	}
}

// HasPermission checks whether the role grants a permission
func (r Role) HasPermission(permission string) bool {
	for _, p := range r.Permissions() {
		if p == permission {
			return true
		}
	}
	return false
}
