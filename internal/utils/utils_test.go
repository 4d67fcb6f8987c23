package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type row struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Skipped string `db:"-"`
	Plain   string
	hidden  string `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	require.Equal(t, []string{"id", "name"}, StructTagValues(row{}))
	require.Equal(t, []string{"id", "name"}, StructTagValues(&row{}))
	require.Panics(t, func() { StructTagValues("nope") })
}

func TestStructToMap(t *testing.T) {
	r := &row{ID: "1", Name: "a", hidden: "x"}
	require.Equal(t, map[string]any{"id": "1", "name": "a"}, StructToMap(r))
	require.Equal(t, map[string]any{"name": "a"}, StructToMap(r, "id"))
}

func TestErrorWrapOrNil(t *testing.T) {
	require.NoError(t, ErrorWrapOrNil(nil, "msg"))

	base := errors.New("boom")
	err := ErrorWrapOrNil(base, "failed to save")
	require.ErrorIs(t, err, base)
	require.Equal(t, "failed to save: boom", err.Error())
	require.Equal(t, base, ErrorWrapOrNil(base, ""))
}

func TestTrimmedStringPtr(t *testing.T) {
	require.Nil(t, TrimmedStringPtr("   "))
	require.Equal(t, "a", *TrimmedStringPtr(" a "))
}

func TestNanoID(t *testing.T) {
	require.Len(t, NanoID(), NanoidSize)
	require.Len(t, NanoIDSize(8), 8)
	require.NotEqual(t, NanoID(), NanoID())
}
