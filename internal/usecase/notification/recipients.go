package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/channor/open-manage/internal/domain/absence"
	"github.com/channor/open-manage/internal/domain/user"

	"gorm.io/gorm"
)

// Recipients resolves who gets told about absence events. Lookups hit the
// user repository on every call.
type Recipients struct {
	users user.Repository
	role  string
}

// NewRecipients defaults role to super_admin when empty.
func NewRecipients(users user.Repository, role string) *Recipients {
	if role == "" {
		role = user.RoleSuperAdmin
	}
	return &Recipients{users: users, role: role}
}

func (r *Recipients) Role() string { return r.role }

// Recipient returns the first user holding the recipient role.
func (r *Recipients) Recipient(ctx context.Context) (*user.User, error) {
	list, err := r.Recipients(ctx)
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *Recipients) Recipients(ctx context.Context) ([]user.User, error) {
	list, err := r.users.ListByRole(ctx, r.role)
	if err != nil {
		return nil, fmt.Errorf("list %s users: %w", r.role, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: role %s", absence.ErrNoRecipientFound, r.role)
	}
	return list, nil
}

// PersonRecipient returns the user account linked to personID.
func (r *Recipients) PersonRecipient(ctx context.Context, personID uint64) (*user.User, error) {
	u, err := r.users.GetByPersonID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: person %d", absence.ErrNoRecipientFound, personID)
		}
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: person %d", absence.ErrNoRecipientFound, personID)
	}
	return u, nil
}
