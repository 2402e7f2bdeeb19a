package frontier

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "frontier.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndTopK(t *testing.T) {
	s := openStore(t)
	run := NewRunID()
	entries := []Entry{
		{Program: "0", LogLikelihood: -1.1},
		{Program: "(+ 0 1)", LogLikelihood: -3.3},
		{Program: "1", LogLikelihood: -1.1},
		{Program: "(+ 1 1)", LogLikelihood: -2.2},
	}
	require.NoError(t, s.SaveRun(run, "int", entries))

	top, err := s.TopK(run, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, -1.1, top[0].LogLikelihood)
	assert.Equal(t, -1.1, top[1].LogLikelihood)
	assert.Equal(t, -2.2, top[2].LogLikelihood)
}

func TestRunsAreIsolated(t *testing.T) {
	s := openStore(t)
	a, b := NewRunID(), NewRunID()
	require.NotEqual(t, a, b)
	require.NoError(t, s.SaveRun(a, "int", []Entry{{Program: "0", LogLikelihood: -1}}))
	require.NoError(t, s.SaveRun(b, "bool", []Entry{{Program: "true", LogLikelihood: -2}}))

	got, err := s.TopK(a, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0", got[0].Program)
}

func TestTopKEmptyRun(t *testing.T) {
	s := openStore(t)
	got, err := s.TopK(NewRunID(), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
