package absence

import "context"

type Filter struct {
	Status Status
}

type Repository interface {
	Create(ctx context.Context, a *Absence) error
	Save(ctx context.Context, a *Absence) error

	// Get by public absence_id, with AbsenceType preloaded
	GetByAbsenceID(ctx context.Context, absenceID string) (*Absence, error)

	// Same as GetByAbsenceID but takes a row lock (inside a tx)
	GetByAbsenceIDForUpdate(ctx context.Context, absenceID string) (*Absence, error)

	// Records of one person, newest first
	ListByPerson(ctx context.Context, personID uint64) ([]Absence, error)

	List(ctx context.Context, f Filter) ([]Absence, error)
}

type TypeRepository interface {
	// GetByID ignores soft-deleted types; new requests may not use them.
	GetByID(ctx context.Context, id uint64) (*AbsenceType, error)
	// GetByIDWithDeleted is for records already filed under a type.
	GetByIDWithDeleted(ctx context.Context, id uint64) (*AbsenceType, error)
	List(ctx context.Context) ([]AbsenceType, error)
}
