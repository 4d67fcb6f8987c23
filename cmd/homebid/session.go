package main

import (
	"fmt"

	"homebid/internal/controller"
	"homebid/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var sessionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "token",
		Usage:   "Identity provider access token",
		EnvVars: []string{"HOMEBID_TOKEN"},
	},
	&cli.StringFlag{
		Name:    "user-id",
		Usage:   "User the token belongs to",
		EnvVars: []string{"HOMEBID_USER_ID"},
	},
	&cli.StringFlag{
		Name:    "user-type",
		Usage:   "buyer or contractor",
		EnvVars: []string{"HOMEBID_USER_TYPE"},
	},
}

var idFlag = &cli.StringFlag{Name: "id", Usage: "Entity id", Required: true}

func sessionFromFlags(c *cli.Context) types.Session {
	return types.Session{
		Token:    c.String("token"),
		UserID:   c.String("user-id"),
		UserType: types.UserType(c.String("user-type")),
	}
}

// commandControllers builds controllers for one CLI invocation. Metrics are
// not recorded.
func commandControllers() (*controller.Controllers, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newControllers(config, newLogger(config), nil), nil
}

// flagString returns nil when the flag was not given, so partial saves only
// send what the caller set.
func flagString(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

// lifecycleAction runs fn with controllers and the flag session, then
// pretty-prints its result.
func lifecycleAction(fn func(c *cli.Context, ctrl *controller.Controllers, s types.Session) (any, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctrl, err := commandControllers()
		if err != nil {
			return err
		}

		out, err := fn(c, ctrl, sessionFromFlags(c))
		if err != nil {
			return err
		}
		if out != nil {
			if _, err := pp.Println(out); err != nil {
				return fmt.Errorf("print result: %w", err)
			}
		}
		return nil
	}
}

func withSession(flags ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag{}, sessionFlags...), flags...)
}
