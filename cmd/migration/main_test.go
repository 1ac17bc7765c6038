package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	upErr    error
	steps    []int
	target   uint
	forced   int
	version  uint
	dirty    bool
	verErr   error
	stepsErr error
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return f.stepsErr
}

func (f *fakeMigrator) Migrate(version uint) error {
	f.target = version
	return nil
}

func (f *fakeMigrator) Force(version int) error {
	f.forced = version
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, f.verErr }

func TestParseSteps(t *testing.T) {
	t.Parallel()

	steps, err := parseSteps(nil)
	require.NoError(t, err)
	require.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	require.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	require.Error(t, err)
	_, err = parseSteps([]string{"x"})
	require.Error(t, err)
}

func TestParseVersionAndTarget(t *testing.T) {
	t.Parallel()

	version, err := parseVersion("2")
	require.NoError(t, err)
	require.Equal(t, 2, version)
	_, err = parseVersion("-1")
	require.Error(t, err)

	target, err := parseTarget("1")
	require.NoError(t, err)
	require.Equal(t, uint(1), target)
	_, err = parseTarget("-1")
	require.Error(t, err)
}

func TestCommands(t *testing.T) {
	t.Parallel()

	logger := logging.NewNop()
	m := &fakeMigrator{upErr: migrate.ErrNoChange, version: 2}
	var out bytes.Buffer

	require.NoError(t, cmdUp(m, nil, &out, logger))
	require.NoError(t, cmdDown(m, []string{"2"}, &out, logger))
	require.Equal(t, []int{-2}, m.steps)
	require.NoError(t, cmdGoto(m, []string{"1"}, &out, logger))
	require.Equal(t, uint(1), m.target)
	require.NoError(t, cmdForce(m, []string{"2"}, &out, logger))
	require.Equal(t, 2, m.forced)
	require.Error(t, cmdForce(m, nil, &out, logger))

	require.NoError(t, cmdVersion(m, nil, &out, logger))
	require.Equal(t, "version=2 dirty=false\n", out.String())

	out.Reset()
	m.verErr = migrate.ErrNilVersion
	require.NoError(t, cmdVersion(m, nil, &out, logger))
	require.Equal(t, "version=none dirty=false\n", out.String())
}

func TestCommands_PropagateErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("dirty database")
	m := &fakeMigrator{upErr: boom, stepsErr: boom}

	require.ErrorIs(t, cmdUp(m, nil, nil, logging.NewNop()), boom)
	require.ErrorIs(t, cmdDown(m, nil, nil, logging.NewNop()), boom)
}

func TestFindMigrationsDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := findMigrationsDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, got)

	_, err = findMigrationsDir(filepath.Join(dir, "missing"))
	if _, statErr := os.Stat("./db/migrations"); statErr != nil {
		require.Error(t, err)
	}
}
