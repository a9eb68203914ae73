package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	absenceDomain "github.com/channor/open-manage/internal/domain/absence"
	"github.com/channor/open-manage/internal/domain/uow"

	"gorm.io/gorm"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	vac := seedType(t, db, "Vacation", false)

	guow := NewGormUoW(db)
	repo := NewAbsenceRepository(db)

	a := makeAbsence(5, vac.ID, time.Now())
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.AbsenceTypes.GetByID(ctx, vac.ID); err != nil {
			return err
		}
		return r.Absences.Create(ctx, a)
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}
	if _, err := repo.GetByAbsenceID(ctx, a.AbsenceID); err != nil {
		t.Fatalf("absence not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	vac := seedType(t, db, "Vacation", false)

	guow := NewGormUoW(db)
	repo := NewAbsenceRepository(db)
	sentinel := errors.New("boom")

	a := makeAbsence(5, vac.ID, time.Now())
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Absences.Create(ctx, a); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if _, err := repo.GetByAbsenceID(ctx, a.AbsenceID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected absence not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinAbsenceTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	vac := seedType(t, db, "Vacation", false)

	guow := NewGormUoW(db)
	repo := NewAbsenceRepository(db)

	seed := makeAbsence(5, vac.ID, time.Now())
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := guow.WithinAbsenceTx(ctx, seed.AbsenceID, func(r uow.Repos, a *absenceDomain.Absence) error {
		if a == nil || a.AbsenceID != seed.AbsenceID || a.Status != absenceDomain.StatusRequested {
			t.Fatalf("unexpected absence passed to fn: %+v", a)
		}
		if a.AbsenceType == nil || a.AbsenceType.ID != vac.ID {
			t.Fatalf("absence type not preloaded: %+v", a.AbsenceType)
		}
		a.Status = absenceDomain.StatusDenied
		return r.Absences.Save(ctx, a)
	})
	if err != nil {
		t.Fatalf("WithinAbsenceTx: %v", err)
	}

	got, err := repo.GetByAbsenceID(ctx, seed.AbsenceID)
	if err != nil {
		t.Fatalf("GetByAbsenceID: %v", err)
	}
	if got.Status != absenceDomain.StatusDenied {
		t.Fatalf("status = %s, want denied", got.Status)
	}
}

func TestGormUoW_WithinAbsenceTx_NotFound(t *testing.T) {
	db := openTestDB(t)
	guow := NewGormUoW(db)

	called := false
	err := guow.WithinAbsenceTx(context.Background(), "missing", func(r uow.Repos, a *absenceDomain.Absence) error {
		called = true
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run when the absence is missing")
	}
}
