package shared

import "strings"

// Role is the access level of a user within their organisation.
type Role string

const (
	RoleManager Role = "manager"
	RoleRep     Role = "sales_rep"
	RoleSetter  Role = "setter"
)

// Permission names used by route guards.
const (
	PermDashboardView = "dashboard.view"
	PermDashboardTeam = "dashboard.team"
	PermReportSubmit  = "report.submit"
	PermReportView    = "report.view"
	PermUserManage    = "user.manage"
	PermProductManage = "product.manage"
	PermOfferManage   = "offer.manage"
	PermMetricsExport = "metrics.export"
)

var rolePermissions = map[Role][]string{
	RoleManager: {
		PermDashboardView, PermDashboardTeam, PermReportView,
		PermUserManage, PermProductManage, PermOfferManage, PermMetricsExport,
	},
	RoleRep: {
		PermDashboardView, PermReportSubmit, PermReportView, PermMetricsExport,
	},
	RoleSetter: {
		PermDashboardView, PermReportSubmit, PermReportView,
	},
}

// ParseRole normalises a stored role string.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleManager:
		return RoleManager, true
	case RoleRep:
		return RoleRep, true
	case RoleSetter:
		return RoleSetter, true
	}
	return "", false
}

// Has reports whether the role grants the permission.
func (r Role) Has(perm string) bool {
	for _, granted := range rolePermissions[r] {
		if strings.EqualFold(granted, perm) {
			return true
		}
	}
	return false
}

// SeesWholeTeam reports whether dashboards for this role cover every user in
// the organisation rather than only the caller's own records.
func (r Role) SeesWholeTeam() bool {
	return r.Has(PermDashboardTeam)
}
