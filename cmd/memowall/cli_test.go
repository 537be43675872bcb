package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/memowall/internal/config"
	"github.com/aretw0/memowall/pkg/core"
)

// newWorkspace moves the test into an empty directory with no memowall
// variables in the environment.
func newWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, name := range []string{
		config.EnvConfig, config.EnvAddr, config.EnvPort, config.EnvStore,
		config.EnvPath, config.EnvKey, config.EnvQuota, config.EnvViewportW,
		config.EnvViewportH, config.EnvReadOnly, config.EnvWatch,
	} {
		t.Setenv(name, "")
	}
	return dir
}

// resetFlags puts every flag back to its default; cobra keeps parsed values
// between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	require.NoError(t, err, "memowall %s", strings.Join(args, " "))
	return out
}

func pin(t *testing.T, args ...string) string {
	t.Helper()
	out := mustRun(t, append([]string{"add"}, args...)...)
	require.True(t, strings.HasPrefix(out, "Note pinned: "), out)
	return strings.TrimSpace(strings.TrimPrefix(out, "Note pinned: "))
}

func listNotes(t *testing.T, args ...string) []core.Note {
	t.Helper()
	out := mustRun(t, append([]string{"list", "--json"}, args...)...)
	var notes []core.Note
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	return notes
}

func readSnapshot(t *testing.T, filename string) []core.Note {
	t.Helper()
	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	var notes []core.Note
	require.NoError(t, json.Unmarshal(data, &notes))
	return notes
}

func TestAddListDelete(t *testing.T) {
	dir := newWorkspace(t)
	snapshot := filepath.Join(dir, ".memowall", core.DefaultStorageKey+".json")

	first := pin(t, "Hello")
	second := pin(t, "Remember the milk", "--author", "Ana", "--color", "rose")

	out := mustRun(t, "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, second+` [rose] "Remember the milk" by Ana`, lines[0], "newest first")
	assert.Equal(t, first+` [white] "Hello" by Anonymous`, lines[1])

	persisted := readSnapshot(t, snapshot)
	require.Len(t, persisted, 2)
	assert.Equal(t, second, persisted[0].ID)

	out = mustRun(t, "delete", first)
	assert.Equal(t, "Note deleted: "+first+"\n", out)

	persisted = readSnapshot(t, snapshot)
	require.Len(t, persisted, 1)
	assert.Equal(t, second, persisted[0].ID)

	_, err := runCLI(t, "delete", first)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Len(t, readSnapshot(t, snapshot), 1)
}

func TestAddRejectsBadInput(t *testing.T) {
	dir := newWorkspace(t)

	_, err := runCLI(t, "add", "Hi", "--color", "yellow")
	assert.ErrorIs(t, err, core.ErrUnknownColor)

	_, err = runCLI(t, "add", "   ")
	assert.ErrorIs(t, err, core.ErrEmptyText)

	_, err = runCLI(t, "add", strings.Repeat(" ", core.MaxTextLength)+"hello")
	assert.ErrorIs(t, err, core.ErrEmptyText)

	_, err = runCLI(t, "add")
	assert.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, ".memowall", core.DefaultStorageKey+".json"))
	assert.True(t, os.IsNotExist(statErr), "nothing was saved")
}

func TestListFormats(t *testing.T) {
	newWorkspace(t)
	pin(t, "one", "--author", "Ana")
	pin(t, "two", "--color", "sky")

	notes := listNotes(t)
	require.Len(t, notes, 2)
	assert.Equal(t, "two", notes[0].Text)
	assert.Equal(t, core.ColorSky, notes[0].Color)

	out := mustRun(t, "list", "--yaml")
	var fromYAML []core.Note
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Equal(t, notes, fromYAML)

	byAna := listNotes(t, "--author", "ana")
	require.Len(t, byAna, 1)
	assert.Equal(t, "one", byAna[0].Text)

	_, err := runCLI(t, "list", "--json", "--yaml")
	assert.Error(t, err)
}

func TestMove(t *testing.T) {
	for _, store := range []string{"fs", "sqlite"} {
		t.Run(store, func(t *testing.T) {
			newWorkspace(t)
			id := pin(t, "drag me", "--store", store)
			before := listNotes(t, "--store", store)
			require.Len(t, before, 1)

			out := mustRun(t, "move", id, "300", "200", "--store", store)
			assert.Equal(t, "Note "+id+" moved to (300, 200)\n", out)

			after := listNotes(t, "--store", store)
			require.Len(t, after, 1)
			assert.Equal(t, 300.0, after[0].X)
			assert.Equal(t, 200.0, after[0].Y)
			assert.Equal(t, before[0].Rotation, after[0].Rotation)
			assert.Equal(t, before[0].Timestamp, after[0].Timestamp)
		})
	}

	t.Run("Rejects Bad Positions", func(t *testing.T) {
		newWorkspace(t)
		id := pin(t, "stay")
		before := listNotes(t)

		for _, args := range [][]string{
			{id, "NaN", "0"},
			{id, "0", "Inf"},
			{id, "-Inf", "1"},
		} {
			_, err := runCLI(t, append([]string{"move"}, args...)...)
			assert.ErrorIs(t, err, core.ErrBadPosition, args)
		}

		_, err := runCLI(t, "move", id, "abc", "0")
		assert.Error(t, err)

		_, err = runCLI(t, "move", "missing", "1", "1")
		assert.ErrorIs(t, err, core.ErrNotFound)

		assert.Equal(t, before, listNotes(t))
	})
}

func TestKeys(t *testing.T) {
	for _, store := range []string{"fs", "sqlite"} {
		t.Run(store, func(t *testing.T) {
			newWorkspace(t)
			pin(t, "default", "--store", store)
			pin(t, "team", "--store", store, "--key", "team-wall")

			out := mustRun(t, "keys", "--store", store)
			assert.ElementsMatch(t, []string{core.DefaultStorageKey, "team-wall"}, strings.Fields(out))

			out = mustRun(t, "keys", "team-*", "--store", store)
			assert.Equal(t, "team-wall\n", out)
		})
	}

	t.Run("Memory Has Nothing To List", func(t *testing.T) {
		newWorkspace(t)
		out := mustRun(t, "keys", "--store", "memory")
		assert.Empty(t, out)
	})
}

func TestConfigResolution(t *testing.T) {
	t.Run("Config File", func(t *testing.T) {
		dir := newWorkspace(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultConfigFile),
			[]byte("store: sqlite\npath: data\nkey: team-wall\n"), 0644))

		pin(t, "from yaml")

		assert.FileExists(t, filepath.Join(dir, "data", "memowall.db"))
		assert.NoDirExists(t, filepath.Join(dir, ".memowall"))
		assert.Len(t, listNotes(t), 1)
		assert.Equal(t, "team-wall\n", mustRun(t, "keys"))
	})

	t.Run("Explicit Config Must Exist", func(t *testing.T) {
		newWorkspace(t)
		_, err := runCLI(t, "list", "--config", "nope.yaml")
		assert.Error(t, err)
	})

	t.Run("Environment Then Flags", func(t *testing.T) {
		dir := newWorkspace(t)
		t.Setenv(config.EnvKey, "env-wall")

		pin(t, "from env")
		assert.FileExists(t, filepath.Join(dir, ".memowall", "env-wall.json"))

		pin(t, "from flag", "--key", "flag-wall")
		assert.FileExists(t, filepath.Join(dir, ".memowall", "flag-wall.json"))
		assert.Len(t, readSnapshot(t, filepath.Join(dir, ".memowall", "env-wall.json")), 1)
	})

	t.Run("Explicit Path", func(t *testing.T) {
		newWorkspace(t)
		elsewhere := t.TempDir()

		pin(t, "pinned elsewhere", "--path", elsewhere)
		assert.FileExists(t, filepath.Join(elsewhere, core.DefaultStorageKey+".json"))
		assert.Empty(t, listNotes(t))
		assert.Len(t, listNotes(t, "--path", elsewhere), 1)
	})

	t.Run("Finds Board From Subdirectory", func(t *testing.T) {
		dir := newWorkspace(t)
		pin(t, "at the root")

		sub := filepath.Join(dir, "notes", "deeper")
		require.NoError(t, os.MkdirAll(sub, 0755))
		t.Chdir(sub)

		notes := listNotes(t)
		require.Len(t, notes, 1)
		assert.Equal(t, "at the root", notes[0].Text)
		assert.NoDirExists(t, filepath.Join(sub, ".memowall"))
	})
}

func TestWatchNeedsWatchableStore(t *testing.T) {
	newWorkspace(t)
	_, err := runCLI(t, "watch", "--store", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not report changes")
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	assert.True(t, strings.HasPrefix(out, "memowall version "), out)
}
