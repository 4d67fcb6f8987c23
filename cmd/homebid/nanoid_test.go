package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runNanoid(t *testing.T, args ...string) ([]string, error) {
	t.Helper()
	var out bytes.Buffer
	app := &cli.App{
		Name:     "homebid",
		Writer:   &out,
		Commands: []*cli.Command{nanoidCommand},
	}
	err := app.Run(append([]string{"homebid", "nanoid"}, args...))
	return strings.Fields(out.String()), err
}

func TestNanoidCommand(t *testing.T) {
	ids, err := runNanoid(t)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.Len(t, ids[0], 21)

	ids, err = runNanoid(t, "--count", "3", "--size", "8")
	require.NoError(t, err)
	require.Len(t, ids, 3)
	for _, id := range ids {
		require.Len(t, id, 8)
	}

	_, err = runNanoid(t, "--size", "-1")
	require.Error(t, err)
}
