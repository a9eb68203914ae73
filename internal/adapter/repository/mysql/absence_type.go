package mysql

import (
	"context"

	absenceDomain "github.com/channor/open-manage/internal/domain/absence"

	"gorm.io/gorm"
)

type AbsenceTypeRepository struct{ db *gorm.DB }

func NewAbsenceTypeRepository(db *gorm.DB) *AbsenceTypeRepository {
	return &AbsenceTypeRepository{db: db}
}

func (r *AbsenceTypeRepository) GetByID(ctx context.Context, id uint64) (*absenceDomain.AbsenceType, error) {
	var out absenceDomain.AbsenceType
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByIDWithDeleted also finds soft-deleted types.
func (r *AbsenceTypeRepository) GetByIDWithDeleted(ctx context.Context, id uint64) (*absenceDomain.AbsenceType, error) {
	var out absenceDomain.AbsenceType
	if err := r.db.WithContext(ctx).Unscoped().First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *AbsenceTypeRepository) List(ctx context.Context) ([]absenceDomain.AbsenceType, error) {
	var out []absenceDomain.AbsenceType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}
