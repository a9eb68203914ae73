package absence

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/channor/open-manage/internal/domain/absence"
	"github.com/channor/open-manage/internal/domain/uow"
	"github.com/channor/open-manage/internal/domain/user"
	"github.com/channor/open-manage/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Usecase struct {
	absences  domain.Repository
	types     domain.TypeRepository
	uow       uow.UnitOfWork
	publisher domain.Publisher
	policy    domain.Policy
	log       logrus.FieldLogger
	now       func() time.Time
}

type Option func(*Usecase)

func WithPolicy(p domain.Policy) Option { return func(u *Usecase) { u.policy = p } }
func WithLogger(l logrus.FieldLogger) Option { return func(u *Usecase) { u.log = l } }
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }
func WithPublisher(p domain.Publisher) Option { return func(u *Usecase) { u.publisher = p } }

// NewUsecase: reads go through the repos, writes through the UoW.
func NewUsecase(absences domain.Repository, types domain.TypeRepository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
		absences: absences,
		types:    types,
		uow:      tx,
		policy:   domain.DefaultPolicy(),
		log:      logrus.StandardLogger(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Create stores a new request for the actor's own person. Any person or
// status in the input is ignored.
func (u *Usecase) Create(ctx context.Context, actor *user.User, in CreateInput) (*AbsenceDTO, error) {
	p := actor.LinkedPerson()
	if p == nil || !p.IsEmployee() {
		return nil, domain.ErrNotAuthenticated
	}
	if in.AbsenceTypeID == 0 {
		return nil, fmt.Errorf("%w: absence_type_id is required", domain.ErrValidation)
	}
	if in.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date is required", domain.ErrValidation)
	}

	a := &domain.Absence{
		AbsenceID:            id.NewID32(),
		PersonID:             p.ID,
		AbsenceTypeID:        in.AbsenceTypeID,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		EstimatedEndDate:     in.EstimatedEndDate,
		Status:               domain.StatusRequested,
		IsMedicallyCertified: in.IsMedicallyCertified,
		Occupational:         in.Occupational,
		IsPaid:               in.IsPaid,
		Notes:                in.Notes,
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.AbsenceTypes.GetByID(ctx, in.AbsenceTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: unknown absence type %d", domain.ErrValidation, in.AbsenceTypeID)
			}
			return err
		}
		a.AbsenceType = t
		a.NormalizeDates(*t)
		if err := checkPeriod(a); err != nil {
			return err
		}
		return r.Absences.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"absence_id": a.AbsenceID,
		"person_id":  a.PersonID,
		"user_id":    actor.ID,
	}).Info("absence requested")
	u.publish(ctx, domain.NewEvent(domain.EventRequested, *a, u.now()))
	return toDTO(a), nil
}

func checkPeriod(a *domain.Absence) error {
	if a.EndDate != nil && a.EndDate.Before(a.StartDate) {
		return fmt.Errorf("%w: end_date is before start_date", domain.ErrValidation)
	}
	if a.EstimatedEndDate != nil && a.EstimatedEndDate.Before(a.StartDate) {
		return fmt.Errorf("%w: estimated_end_date is before start_date", domain.ErrValidation)
	}
	return nil
}

func (u *Usecase) Approve(ctx context.Context, actor *user.User, absenceID string) (*AbsenceDTO, error) {
	return u.transition(ctx, actor, absenceID, func(a *domain.Absence) error {
		return a.Approve(actor, u.now())
	})
}

func (u *Usecase) Deny(ctx context.Context, actor *user.User, absenceID string) (*AbsenceDTO, error) {
	return u.transition(ctx, actor, absenceID, func(a *domain.Absence) error {
		return a.Deny()
	})
}

func (u *Usecase) transition(ctx context.Context, actor *user.User, absenceID string, apply func(a *domain.Absence) error) (*AbsenceDTO, error) {
	if actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	var updated domain.Absence

	err := u.uow.WithinAbsenceTx(ctx, absenceID, func(r uow.Repos, a *domain.Absence) error {
		if !a.CanBeManagedBy(actor, u.policy) {
			return domain.ErrUnauthorized
		}
		if err := apply(a); err != nil {
			return err
		}
		if a.AbsenceType == nil {
			t, err := r.AbsenceTypes.GetByIDWithDeleted(ctx, a.AbsenceTypeID)
			if err != nil {
				return fmt.Errorf("load absence type %d: %w", a.AbsenceTypeID, err)
			}
			a.AbsenceType = t
		}
		a.NormalizeDates(*a.AbsenceType)
		if err := r.Absences.Save(ctx, a); err != nil {
			return err
		}
		updated = *a
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}

	u.log.WithFields(logrus.Fields{
		"absence_id": updated.AbsenceID,
		"status":     updated.Status,
		"user_id":    actor.ID,
	}).Info("absence status updated")
	u.publish(ctx, domain.NewEvent(domain.EventStatusUpdated, updated, u.now()))
	return toDTO(&updated), nil
}

// Get returns the absence when the actor owns it or may manage it.
func (u *Usecase) Get(ctx context.Context, actor *user.User, absenceID string) (*AbsenceDTO, error) {
	if actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	a, err := u.absences.GetByAbsenceID(ctx, absenceID)
	if err != nil {
		return nil, notFound(err)
	}
	if !a.IsOwnedBy(actor) && !a.CanBeManagedBy(actor, u.policy) {
		return nil, domain.ErrUnauthorized
	}
	return toDTO(a), nil
}

// ListMine is empty for an actor without a linked person.
func (u *Usecase) ListMine(ctx context.Context, actor *user.User) ([]AbsenceDTO, error) {
	p := actor.LinkedPerson()
	if p == nil {
		return []AbsenceDTO{}, nil
	}
	list, err := u.absences.ListByPerson(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

func (u *Usecase) ListAll(ctx context.Context, actor *user.User, status string) ([]AbsenceDTO, error) {
	if actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if u.policy == nil || !u.policy.CanManageAbsences(actor) {
		return nil, domain.ErrUnauthorized
	}
	f := domain.Filter{Status: domain.Status(status)}
	if status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	list, err := u.absences.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return toDTOs(list), nil
}

func (u *Usecase) Form(ctx context.Context) (*FormDTO, error) {
	types, err := u.types.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &FormDTO{Title: RequestTitle, AbsenceTypes: make([]AbsenceTypeDTO, 0, len(types))}
	for _, t := range types {
		out.AbsenceTypes = append(out.AbsenceTypes, AbsenceTypeDTO{ID: t.ID, Name: t.Name, HasHours: t.HasHours})
	}
	return out, nil
}

func (u *Usecase) publish(ctx context.Context, events ...domain.Event) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, events...); err != nil {
		for _, e := range events {
			u.log.WithError(err).WithFields(logrus.Fields{
				"event_id":   e.ID,
				"event_type": e.Type,
				"absence_id": e.Absence.AbsenceID,
			}).Warn("absence event not published")
		}
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
