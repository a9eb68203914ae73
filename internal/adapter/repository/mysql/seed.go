package mysql

import (
	"context"

	"github.com/channor/open-manage/internal/domain/absence"
	"github.com/channor/open-manage/internal/domain/user"

	"gorm.io/gorm"
)

// DefaultAbsenceTypes is the catalogue installed on an empty database.
var DefaultAbsenceTypes = []absence.AbsenceType{
	{Name: "Vacation"},
	{Name: "Sick leave"},
	{Name: "Child sick leave"},
	{Name: "Parental leave"},
	{Name: "Doctor appointment", HasHours: true},
	{Name: "Time off in lieu", HasHours: true},
}

var defaultRoles = []string{user.RoleSuperAdmin, user.RoleHRManager, user.RoleEmployee}

// Seed installs the roles and absence types. Existing rows are kept, so it
// is safe to run on every start.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range defaultRoles {
			r := user.Role{Name: name}
			if err := tx.Where(user.Role{Name: name}).FirstOrCreate(&r).Error; err != nil {
				return err
			}
		}
		for _, t := range DefaultAbsenceTypes {
			at := t
			if err := tx.Where(absence.AbsenceType{Name: t.Name}).
				Attrs(absence.AbsenceType{HasHours: t.HasHours}).
				FirstOrCreate(&at).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
