package uow

import (
	"context"

	"github.com/channor/open-manage/internal/domain/absence"
	"github.com/channor/open-manage/internal/domain/user"
)

type Repos struct {
	Absences     absence.Repository
	AbsenceTypes absence.TypeRepository
	Users        user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the absence first, then pass it in
	WithinAbsenceTx(ctx context.Context, absenceID string, fn func(r Repos, a *absence.Absence) error) error
}
