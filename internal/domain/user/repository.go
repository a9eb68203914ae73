package user

import "context"

type Repository interface {
	// GetByID loads the user with person and roles.
	GetByID(ctx context.Context, id uint64) (*User, error)

	// GetByPersonID returns the user linked to the given person.
	GetByPersonID(ctx context.Context, personID uint64) (*User, error)

	// ListByRole returns users holding the role, in store order.
	ListByRole(ctx context.Context, role string) ([]User, error)
}
