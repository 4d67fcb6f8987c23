package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "homebid",
		Usage: "Home services marketplace gateway",
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
			jobsCommand,
			bidsCommand,
			creditsCommand,
			nanoidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
