package uowmock

import (
	"context"
	"errors"

	"github.com/channor/open-manage/internal/domain/absence"
	"github.com/channor/open-manage/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinAbsenceTxFn func(ctx context.Context, absenceID string, fn func(r uow.Repos, a *absence.Absence) error) error
}

// Passthrough runs fn directly against repos, with WithinAbsenceTx loading
// the absence through repos.Absences.GetByAbsenceIDForUpdate.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinAbsenceTxFn: func(ctx context.Context, absenceID string, fn func(r uow.Repos, a *absence.Absence) error) error {
			a, err := repos.Absences.GetByAbsenceIDForUpdate(ctx, absenceID)
			if err != nil {
				return err
			}
			return fn(repos, a)
		},
	}
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinAbsenceTx(fn func(context.Context, string, func(uow.Repos, *absence.Absence) error) error) *UoW {
	m.WithinAbsenceTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinAbsenceTx(ctx context.Context, absenceID string, fn func(r uow.Repos, a *absence.Absence) error) error {
	if m.WithinAbsenceTxFn != nil {
		return m.WithinAbsenceTxFn(ctx, absenceID, fn)
	}
	return errUnimplemented
}
