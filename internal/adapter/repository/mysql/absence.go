package mysql

import (
	"context"

	absenceDomain "github.com/channor/open-manage/internal/domain/absence"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AbsenceRepository struct{ db *gorm.DB }

func NewAbsenceRepository(db *gorm.DB) *AbsenceRepository { return &AbsenceRepository{db: db} }

// withDeletedType keeps a soft-deleted absence type attached to the absences
// that were filed under it.
func withDeletedType(db *gorm.DB) *gorm.DB { return db.Unscoped() }

func (r *AbsenceRepository) Create(ctx context.Context, a *absenceDomain.Absence) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *AbsenceRepository) Save(ctx context.Context, a *absenceDomain.Absence) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *AbsenceRepository) GetByAbsenceID(ctx context.Context, absenceID string) (*absenceDomain.Absence, error) {
	var out absenceDomain.Absence
	err := r.db.WithContext(ctx).
		Preload("AbsenceType", withDeletedType).
		Where("absence_id = ?", absenceID).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *AbsenceRepository) GetByAbsenceIDForUpdate(ctx context.Context, absenceID string) (*absenceDomain.Absence, error) {
	var out absenceDomain.Absence
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("AbsenceType", withDeletedType).
		Where("absence_id = ?", absenceID).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *AbsenceRepository) ListByPerson(ctx context.Context, personID uint64) ([]absenceDomain.Absence, error) {
	var out []absenceDomain.Absence
	err := r.db.WithContext(ctx).
		Preload("AbsenceType", withDeletedType).
		Where("person_id = ?", personID).
		Order("start_date DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *AbsenceRepository) List(ctx context.Context, f absenceDomain.Filter) ([]absenceDomain.Absence, error) {
	q := r.db.WithContext(ctx).Preload("AbsenceType", withDeletedType)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []absenceDomain.Absence
	err := q.Order("start_date DESC, id DESC").Find(&out).Error
	return out, err
}
