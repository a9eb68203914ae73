package mysql

import (
	"context"

	"github.com/channor/open-manage/internal/domain/absence"
	"github.com/channor/open-manage/internal/domain/uow"
	"github.com/channor/open-manage/internal/domain/user"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Absences:     &AbsenceRepository{db: tx},
		AbsenceTypes: &AbsenceTypeRepository{db: tx},
		Users:        &UserRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinAbsenceTx(ctx context.Context, absenceID string, fn func(r uow.Repos, a *absence.Absence) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the absence row up-front to prevent races
		a, err := r.Absences.GetByAbsenceIDForUpdate(ctx, absenceID)
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.Person{}, &user.Role{}, &user.User{},
		&absence.AbsenceType{}, &absence.Absence{},
	)
}
