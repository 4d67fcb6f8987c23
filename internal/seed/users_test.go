package seed

import (
	"context"
	"io"
	"testing"

	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	users   map[string]*types.User
	created int
	updated int
}

func (m *memoryUsers) User(_ context.Context, userID string) (*types.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memoryUsers) Create(_ context.Context, user *types.User) error {
	m.created++
	m.users[user.ID] = user
	return nil
}

func (m *memoryUsers) Update(_ context.Context, userID string, user *types.User) error {
	m.updated++
	m.users[userID] = user
	return nil
}

func TestSeedFakeUsersIsRepeatable(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	repo := &memoryUsers{users: map[string]*types.User{}}

	require.NoError(t, SeedFakeUsers(context.Background(), repo, logger))
	require.Equal(t, len(fakeUsers), repo.created)
	require.Zero(t, repo.updated)

	require.NoError(t, SeedFakeUsers(context.Background(), repo, logger))
	require.Equal(t, len(fakeUsers), repo.created)
	require.Equal(t, len(fakeUsers), repo.updated)

	require.Len(t, fakeUserIDs(types.UserTypeBuyer), 2)
	require.Len(t, fakeUserIDs(types.UserTypeContractor), 3)

	for _, id := range fakeUserIDs(types.UserTypeContractor) {
		require.Equal(t, "contractor", *repo.users[id].UserType)
	}
}
