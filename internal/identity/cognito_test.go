package identity

import (
	"context"
	"errors"
	"testing"

	"homebid/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/require"
)

type fakeCognito struct {
	InitiateAuthFunc  func(*cognitoidentityprovider.InitiateAuthInput) (*cognitoidentityprovider.InitiateAuthOutput, error)
	SignUpFunc        func(*cognitoidentityprovider.SignUpInput) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUpFunc func(*cognitoidentityprovider.ConfirmSignUpInput) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
	GetUserFunc       func(*cognitoidentityprovider.GetUserInput) (*cognitoidentityprovider.GetUserOutput, error)
}

func (f *fakeCognito) InitiateAuth(_ context.Context, in *cognitoidentityprovider.InitiateAuthInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	return f.InitiateAuthFunc(in)
}

func (f *fakeCognito) SignUp(_ context.Context, in *cognitoidentityprovider.SignUpInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error) {
	return f.SignUpFunc(in)
}

func (f *fakeCognito) ConfirmSignUp(_ context.Context, in *cognitoidentityprovider.ConfirmSignUpInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error) {
	return f.ConfirmSignUpFunc(in)
}

func (f *fakeCognito) GetUser(_ context.Context, in *cognitoidentityprovider.GetUserInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error) {
	return f.GetUserFunc(in)
}

func TestLogin(t *testing.T) {
	fake := &fakeCognito{
		InitiateAuthFunc: func(in *cognitoidentityprovider.InitiateAuthInput) (*cognitoidentityprovider.InitiateAuthOutput, error) {
			require.Equal(t, ctypes.AuthFlowTypeUserPasswordAuth, in.AuthFlow)
			require.Equal(t, "client-1", aws.ToString(in.ClientId))

			if in.AuthParameters["PASSWORD"] != "correct horse" {
				return nil, &ctypes.NotAuthorizedException{Message: aws.String("Incorrect username or password.")}
			}
			return &cognitoidentityprovider.InitiateAuthOutput{
				AuthenticationResult: &ctypes.AuthenticationResultType{
					AccessToken: aws.String("access-token"),
					ExpiresIn:   3600,
				},
			}, nil
		},
	}
	c := &Cognito{client: fake, clientID: "client-1"}

	tokens, err := c.Login(context.Background(), "ava@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "access-token", tokens.AccessToken)
	require.Equal(t, 3600, tokens.ExpiresIn)

	_, err = c.Login(context.Background(), "ava@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterSendsUserType(t *testing.T) {
	var attrs map[string]string
	fake := &fakeCognito{
		SignUpFunc: func(in *cognitoidentityprovider.SignUpInput) (*cognitoidentityprovider.SignUpOutput, error) {
			attrs = make(map[string]string)
			for _, a := range in.UserAttributes {
				attrs[aws.ToString(a.Name)] = aws.ToString(a.Value)
			}
			if aws.ToString(in.Username) == "taken@example.com" {
				return nil, &ctypes.UsernameExistsException{}
			}
			return &cognitoidentityprovider.SignUpOutput{}, nil
		},
	}
	c := &Cognito{client: fake, clientID: "client-1"}

	err := c.Register(context.Background(), Registration{
		Email:      "new@example.com",
		Password:   "Sup3r-secret-pw",
		GivenName:  "Noah",
		FamilyName: "Brown",
		UserType:   types.UserTypeContractor,
		Phone:      "4165550123",
	})
	require.NoError(t, err)
	require.Equal(t, "contractor", attrs[UserTypeAttribute])
	require.Equal(t, "new@example.com", attrs["email"])
	require.Equal(t, "+14165550123", attrs["phone_number"])

	err = c.Register(context.Background(), Registration{Email: "taken@example.com"})
	require.ErrorIs(t, err, ErrUserExists)
	require.NotContains(t, attrs, "phone_number")
}

func TestConfirm(t *testing.T) {
	fake := &fakeCognito{
		ConfirmSignUpFunc: func(in *cognitoidentityprovider.ConfirmSignUpInput) (*cognitoidentityprovider.ConfirmSignUpOutput, error) {
			if aws.ToString(in.ConfirmationCode) != "123456" {
				return nil, &ctypes.CodeMismatchException{}
			}
			return &cognitoidentityprovider.ConfirmSignUpOutput{}, nil
		},
	}
	c := &Cognito{client: fake, clientID: "client-1"}

	require.NoError(t, c.Confirm(context.Background(), "a@example.com", "123456"))
	require.ErrorIs(t, c.Confirm(context.Background(), "a@example.com", "000000"), ErrCodeMismatch)
}

func TestProfile(t *testing.T) {
	fake := &fakeCognito{
		GetUserFunc: func(in *cognitoidentityprovider.GetUserInput) (*cognitoidentityprovider.GetUserOutput, error) {
			if aws.ToString(in.AccessToken) != "access-token" {
				return nil, errors.New("boom")
			}
			return &cognitoidentityprovider.GetUserOutput{
				Username: aws.String("ava"),
				UserAttributes: []ctypes.AttributeType{
					{Name: aws.String("sub"), Value: aws.String("user-1")},
					{Name: aws.String("email"), Value: aws.String("ava@example.com")},
					{Name: aws.String("given_name"), Value: aws.String(" Ava ")},
					{Name: aws.String("family_name"), Value: aws.String("Williams")},
					{Name: aws.String(UserTypeAttribute), Value: aws.String("buyer")},
				},
			}, nil
		},
	}
	c := &Cognito{client: fake, clientID: "client-1"}

	p, err := c.Profile(context.Background(), "access-token")
	require.NoError(t, err)
	require.Equal(t, &Profile{
		ID:         "user-1",
		Email:      "ava@example.com",
		GivenName:  "Ava",
		FamilyName: "Williams",
		UserType:   types.UserTypeBuyer,
	}, p)

	_, err = c.Profile(context.Background(), "other")
	require.Error(t, err)
}
