// Package identity wraps the identity provider: password login, sign up and
// profile lookup against Cognito, and access token verification against the
// pool's JWKS.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homebid/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// UserTypeAttribute is the custom profile attribute carrying buyer or contractor.
const UserTypeAttribute = "custom:user_type"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotConfirmed   = errors.New("user not confirmed")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidPassword    = errors.New("password does not meet policy")
	ErrInvalidParameter   = errors.New("invalid sign up parameter")
	ErrCodeMismatch       = errors.New("confirmation code mismatch")
)

type Tokens struct {
	AccessToken string
	ExpiresIn   int
}

type Profile struct {
	ID         string
	Email      string
	GivenName  string
	FamilyName string
	UserType   types.UserType
}

type Registration struct {
	Email      string
	Password   string
	GivenName  string
	FamilyName string
	UserType   types.UserType
	// Phone holds ten national digits, or nothing.
	Phone string
}

type cognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
	GetUser(ctx context.Context, params *cognitoidentityprovider.GetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error)
}

type Cognito struct {
	client   cognitoAPI
	clientID string
}

func NewCognito(client *cognitoidentityprovider.Client, clientID string) *Cognito {
	return &Cognito{client: client, clientID: clientID}
}

func (c *Cognito) Login(ctx context.Context, email, password string) (*Tokens, error) {
	resp, err := c.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		var notConfirmed *ctypes.UserNotConfirmedException
		if errors.As(err, &notConfirmed) {
			return nil, ErrUserNotConfirmed
		}
		var notAuthorized *ctypes.NotAuthorizedException
		var notFound *ctypes.UserNotFoundException
		if errors.As(err, &notAuthorized) || errors.As(err, &notFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("initiate auth: %w", err)
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		return nil, ErrInvalidCredentials
	}

	return &Tokens{
		AccessToken: aws.ToString(resp.AuthenticationResult.AccessToken),
		ExpiresIn:   int(resp.AuthenticationResult.ExpiresIn),
	}, nil
}

// Register signs a new user up with their marketplace role as a profile
// attribute. The account still has to be confirmed before Login succeeds.
func (c *Cognito) Register(ctx context.Context, reg Registration) error {
	attrs := []ctypes.AttributeType{
		{Name: aws.String("email"), Value: aws.String(reg.Email)},
		{Name: aws.String("given_name"), Value: aws.String(reg.GivenName)},
		{Name: aws.String("family_name"), Value: aws.String(reg.FamilyName)},
		{Name: aws.String(UserTypeAttribute), Value: aws.String(string(reg.UserType))},
	}
	if reg.Phone != "" {
		attrs = append(attrs, ctypes.AttributeType{Name: aws.String("phone_number"), Value: aws.String("+1" + reg.Phone)})
	}

	_, err := c.client.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId:       aws.String(c.clientID),
		Username:       aws.String(reg.Email),
		Password:       aws.String(reg.Password),
		UserAttributes: attrs,
	})
	if err == nil {
		return nil
	}

	var invalidPw *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPw) {
		return ErrInvalidPassword
	}
	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		return ErrUserExists
	}
	var invalidParam *ctypes.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return ErrInvalidParameter
	}
	return fmt.Errorf("sign up: %w", err)
}

func (c *Cognito) Confirm(ctx context.Context, email, code string) error {
	_, err := c.client.ConfirmSignUp(ctx, &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		var codeMismatch *ctypes.CodeMismatchException
		if errors.As(err, &codeMismatch) {
			return ErrCodeMismatch
		}
		return fmt.Errorf("confirm sign up: %w", err)
	}
	return nil
}

// Profile reads the signed-in user's attributes with their own access token.
func (c *Cognito) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	resp, err := c.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return profileFromAttributes(resp.UserAttributes), nil
}

func profileFromAttributes(attrs []ctypes.AttributeType) *Profile {
	p := new(Profile)
	for _, attr := range attrs {
		value := strings.TrimSpace(aws.ToString(attr.Value))
		switch aws.ToString(attr.Name) {
		case "sub":
			p.ID = value
		case "email":
			p.Email = value
		case "given_name":
			p.GivenName = value
		case "family_name":
			p.FamilyName = value
		case UserTypeAttribute:
			p.UserType = types.UserType(value)
		}
	}
	return p
}
