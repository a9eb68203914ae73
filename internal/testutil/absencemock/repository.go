package absencemock

import (
	"context"

	domain "github.com/channor/open-manage/internal/domain/absence"
)

var (
	_ domain.Repository     = (*Repo)(nil)
	_ domain.TypeRepository = (*TypeRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, a *domain.Absence) error
	SaveFn                    func(ctx context.Context, a *domain.Absence) error
	GetByAbsenceIDFn          func(ctx context.Context, absenceID string) (*domain.Absence, error)
	GetByAbsenceIDForUpdateFn func(ctx context.Context, absenceID string) (*domain.Absence, error)
	ListByPersonFn            func(ctx context.Context, personID uint64) ([]domain.Absence, error)
	ListFn                    func(ctx context.Context, f domain.Filter) ([]domain.Absence, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Absence) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Absence) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByAbsenceID(ctx context.Context, absenceID string) (*domain.Absence, error) {
	if m.GetByAbsenceIDFn != nil {
		return m.GetByAbsenceIDFn(ctx, absenceID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByAbsenceIDForUpdate(ctx context.Context, absenceID string) (*domain.Absence, error) {
	if m.GetByAbsenceIDForUpdateFn != nil {
		return m.GetByAbsenceIDForUpdateFn(ctx, absenceID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByPerson(ctx context.Context, personID uint64) ([]domain.Absence, error) {
	if m.ListByPersonFn != nil {
		return m.ListByPersonFn(ctx, personID)
	}
	return nil, nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Absence, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

// TypeRepo is a function-backed mock that satisfies domain.TypeRepository.
type TypeRepo struct {
	GetByIDFn            func(ctx context.Context, id uint64) (*domain.AbsenceType, error)
	GetByIDWithDeletedFn func(ctx context.Context, id uint64) (*domain.AbsenceType, error)
	ListFn               func(ctx context.Context) ([]domain.AbsenceType, error)
}

func (m *TypeRepo) GetByID(ctx context.Context, id uint64) (*domain.AbsenceType, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

// GetByIDWithDeleted falls back to GetByIDFn when no dedicated func is set.
func (m *TypeRepo) GetByIDWithDeleted(ctx context.Context, id uint64) (*domain.AbsenceType, error) {
	if m.GetByIDWithDeletedFn != nil {
		return m.GetByIDWithDeletedFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *TypeRepo) List(ctx context.Context) ([]domain.AbsenceType, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}
