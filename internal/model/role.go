package model

import "strings"

// Role is the account's access level. Anything other than the known codes grants nothing.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

// Privilege codes checked by the HTTP middleware.
const (
	PrivProductView       = "product:view"
	PrivProductCreate     = "product:create"
	PrivProductUpdate     = "product:update"
	PrivProductDeactivate = "product:deactivate"
	PrivSaleCreate        = "sale:create"
	PrivSaleView          = "sale:view"
	PrivSaleReverse       = "sale:reverse"
	PrivStockAdjust       = "stock:adjust"
	PrivReportView        = "report:view"
	PrivAccountManage     = "account:manage"
)

var AllPrivileges = []string{
	PrivProductView,
	PrivProductCreate,
	PrivProductUpdate,
	PrivProductDeactivate,
	PrivSaleCreate,
	PrivSaleView,
	PrivSaleReverse,
	PrivStockAdjust,
	PrivReportView,
	PrivAccountManage,
}

var rolePrivileges = map[Role][]string{
	RoleAdmin: AllPrivileges,
	RoleStaff: {
		PrivProductView,
		PrivSaleCreate,
		PrivSaleView,
		PrivStockAdjust,
	},
}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	_, ok := rolePrivileges[r]
	return ok
}

// Privileges returns a copy of the role's privilege codes, nil for unknown roles.
func (r Role) Privileges() []string {
	privs, ok := rolePrivileges[r]
	if !ok {
		return nil
	}
	out := make([]string, len(privs))
	copy(out, privs)
	return out
}

// Can checks if the role grants a specific privilege
func (r Role) Can(code string) bool {
	for _, p := range rolePrivileges[r] {
		if p == code {
			return true
		}
	}
	return false
}
