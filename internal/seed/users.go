package seed

import (
	"context"
	"errors"
	"fmt"

	"homebid/internal/store"
	"homebid/internal/utils"
	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
)

type fakeUserSeed struct {
	ID         string
	Email      string
	GivenName  string
	FamilyName string
	UserType   types.UserType
}

var fakeUsers = []fakeUserSeed{
	{ID: "11111111-1111-1111-1111-111111111111", Email: "ava.williams+buyer1@example.com", GivenName: "Ava", FamilyName: "Williams", UserType: types.UserTypeBuyer},
	{ID: "22222222-2222-2222-2222-222222222222", Email: "liam.johnson+buyer2@example.com", GivenName: "Liam", FamilyName: "Johnson", UserType: types.UserTypeBuyer},
	{ID: "33333333-3333-3333-3333-333333333333", Email: "noah.brown+contractor1@example.com", GivenName: "Noah", FamilyName: "Brown", UserType: types.UserTypeContractor},
	{ID: "44444444-4444-4444-4444-444444444444", Email: "mia.davis+contractor2@example.com", GivenName: "Mia", FamilyName: "Davis", UserType: types.UserTypeContractor},
	{ID: "55555555-5555-5555-5555-555555555555", Email: "elijah.garcia+contractor3@example.com", GivenName: "Elijah", FamilyName: "Garcia", UserType: types.UserTypeContractor},
}

// UserStore is the part of the user repository seeding needs.
type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	Create(ctx context.Context, user *types.User) error
	Update(ctx context.Context, userID string, user *types.User) error
}

var _ UserStore = (*store.UserRepository)(nil)

func fakeUserIDs(userType types.UserType) []string {
	ids := make([]string, 0, len(fakeUsers))
	for _, user := range fakeUsers {
		if user.UserType == userType {
			ids = append(ids, user.ID)
		}
	}
	return ids
}

// SeedFakeUsers upserts the development buyers and contractors.
func SeedFakeUsers(ctx context.Context, userRepo UserStore, logger *logrus.Logger) error {
	seeded := 0
	for _, fakeUser := range fakeUsers {
		userType := string(fakeUser.UserType)

		existing, err := userRepo.User(ctx, fakeUser.ID)
		if err != nil {
			if !errors.Is(err, types.ErrUserNotFound) {
				return fmt.Errorf("failed to fetch fake user %s: %w", fakeUser.ID, err)
			}

			newUser := &types.User{
				ID:         fakeUser.ID,
				UserType:   &userType,
				Email:      utils.StringPtr(fakeUser.Email),
				GivenName:  utils.StringPtr(fakeUser.GivenName),
				FamilyName: utils.StringPtr(fakeUser.FamilyName),
			}

			if err := userRepo.Create(ctx, newUser); err != nil {
				return fmt.Errorf("failed to create fake user %s: %w", fakeUser.ID, err)
			}
			seeded++
			continue
		}

		existing.UserType = &userType
		existing.Email = utils.StringPtr(fakeUser.Email)
		existing.GivenName = utils.StringPtr(fakeUser.GivenName)
		existing.FamilyName = utils.StringPtr(fakeUser.FamilyName)

		if err := userRepo.Update(ctx, fakeUser.ID, existing); err != nil {
			return fmt.Errorf("failed to update fake user %s: %w", fakeUser.ID, err)
		}
		seeded++
	}

	logger.WithFields(logrus.Fields{
		"upserted":    seeded,
		"buyers":      len(fakeUserIDs(types.UserTypeBuyer)),
		"contractors": len(fakeUserIDs(types.UserTypeContractor)),
	}).Info("fake users seeded")
	return nil
}
