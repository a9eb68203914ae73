package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/channor/open-manage/internal/domain/absence"
	"github.com/channor/open-manage/internal/domain/user"
	"github.com/channor/open-manage/internal/testutil/usermock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRecipients_Recipient(t *testing.T) {
	var asked []string
	users := &usermock.Repo{
		ListByRoleFn: func(_ context.Context, role string) ([]user.User, error) {
			asked = append(asked, role)
			return []user.User{{ID: 3, Email: "a@example.com"}, {ID: 8, Email: "b@example.com"}}, nil
		},
	}
	r := NewRecipients(users, "")

	got, err := r.Recipient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.ID)

	all, err := r.Recipients(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// every call goes to the repository
	assert.Equal(t, []string{user.RoleSuperAdmin, user.RoleSuperAdmin}, asked)
}

func TestRecipients_Empty(t *testing.T) {
	users := &usermock.Repo{
		ListByRoleFn: func(context.Context, string) ([]user.User, error) { return nil, nil },
	}
	r := NewRecipients(users, user.RoleHRManager)
	assert.Equal(t, user.RoleHRManager, r.Role())

	_, err := r.Recipient(context.Background())
	assert.ErrorIs(t, err, absence.ErrNoRecipientFound)

	_, err = r.Recipients(context.Background())
	assert.ErrorIs(t, err, absence.ErrNoRecipientFound)
}

func TestRecipients_RepositoryError(t *testing.T) {
	boom := errors.New("db down")
	users := &usermock.Repo{
		ListByRoleFn: func(context.Context, string) ([]user.User, error) { return nil, boom },
	}
	_, err := NewRecipients(users, "").Recipients(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, absence.ErrNoRecipientFound)
}

func TestRecipients_PersonRecipient(t *testing.T) {
	users := &usermock.Repo{
		GetByPersonIDFn: func(_ context.Context, personID uint64) (*user.User, error) {
			if personID == 5 {
				return &user.User{ID: 1, Email: "emp@example.com"}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	r := NewRecipients(users, "")

	u, err := r.PersonRecipient(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "emp@example.com", u.Email)

	_, err = r.PersonRecipient(context.Background(), 6)
	assert.ErrorIs(t, err, absence.ErrNoRecipientFound)
}
