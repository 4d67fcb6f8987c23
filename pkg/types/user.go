package types

import "time"

type UserType string

const (
	UserTypeBuyer      UserType = "buyer"
	UserTypeContractor UserType = "contractor"
)

func ValidUserType(t UserType) bool {
	switch t {
	case UserTypeBuyer, UserTypeContractor:
		return true
	default:
		return false
	}
}

type User struct {
	ID         string    `db:"id"`
	UserType   *string   `db:"user_type"`
	Email      *string   `db:"email"`
	GivenName  *string   `db:"given_name"`
	FamilyName *string   `db:"family_name"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Session is the caller identity every lifecycle operation receives explicitly.
// Token is the identity provider's bearer token for the backend API.
type Session struct {
	Token    string
	UserID   string
	UserType UserType
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}
