package auth

import "maidmatch_backend/internal/models"

// Permission names a coarse capability checked at the route level. Ownership
// and state checks stay in the services.
type Permission string

const (
	PermJobsCreate          Permission = "jobs:create"
	PermJobsManage          Permission = "jobs:manage"
	PermApplicationsCreate  Permission = "applications:create"
	PermApplicationsReadOwn Permission = "applications:read:self"
	PermReviewsWrite        Permission = "reviews:write"
	PermIdentitiesWrite     Permission = "identities:write"
)

var Permissions = map[models.UserRole][]Permission{
	models.UserRoleAdmin: {
		PermJobsManage,
		PermReviewsWrite,
		PermIdentitiesWrite,
	},
	models.UserRoleRequester: {
		PermJobsCreate,
		PermJobsManage,
		PermReviewsWrite,
	},
	models.UserRoleProvider: {
		PermApplicationsCreate,
		PermApplicationsReadOwn,
		PermReviewsWrite,
	},
}

// HasPermission reports whether role carries permission.
func HasPermission(role models.UserRole, permission Permission) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
