package main

import (
	"fmt"

	"homebid/internal/utils"

	"github.com/urfave/cli/v2"
)

var nanoidCommand = &cli.Command{
	Name:  "nanoid",
	Usage: "Generate ids in the format used for pending payments and image keys",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of IDs to generate",
			Value:   1,
		},
		&cli.IntFlag{
			Name:    "size",
			Aliases: []string{"s"},
			Usage:   "Length of each ID",
			Value:   utils.NanoidSize,
		},
	},
	Action: func(c *cli.Context) error {
		size := c.Int("size")
		if size < 0 {
			return fmt.Errorf("size cannot be negative, got %d", size)
		}
		for range c.Int("count") {
			fmt.Fprintln(c.App.Writer, utils.NanoIDSize(size))
		}
		return nil
	},
}
