package usermock

import (
	"context"

	domain "github.com/channor/open-manage/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetByIDFn       func(ctx context.Context, id uint64) (*domain.User, error)
	GetByPersonIDFn func(ctx context.Context, personID uint64) (*domain.User, error)
	ListByRoleFn    func(ctx context.Context, role string) ([]domain.User, error)
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByPersonID(ctx context.Context, personID uint64) (*domain.User, error) {
	if m.GetByPersonIDFn != nil {
		return m.GetByPersonIDFn(ctx, personID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	if m.ListByRoleFn != nil {
		return m.ListByRoleFn(ctx, role)
	}
	return nil, nil
}
