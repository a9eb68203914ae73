package mysql

import (
	"context"

	userDomain "github.com/channor/open-manage/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Person").Preload("Roles")
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.withRelations(ctx).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepository) GetByPersonID(ctx context.Context, personID uint64) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.withRelations(ctx).Where("person_id = ?", personID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByRole hits the store on every call; callers must not cache the result.
func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]userDomain.User, error) {
	var out []userDomain.User
	err := r.withRelations(ctx).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", role).
		Order("users.id ASC").
		Find(&out).Error
	return out, err
}
