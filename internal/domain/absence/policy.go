package absence

import "github.com/channor/open-manage/internal/domain/user"

// Policy decides who may approve or deny absences.
type Policy interface {
	CanManageAbsences(u *user.User) bool
}

// RolePolicy grants management to holders of any of ManagingRoles.
type RolePolicy struct {
	ManagingRoles []string
}

func DefaultPolicy() RolePolicy {
	return RolePolicy{ManagingRoles: []string{user.RoleHRManager, user.RoleSuperAdmin}}
}

func (p RolePolicy) CanManageAbsences(u *user.User) bool {
	return u.HasAnyRole(p.ManagingRoles...)
}
