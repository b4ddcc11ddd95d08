package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "kb", cmd.Use)
	assert.Contains(t, cmd.Long, "conjunctive pattern queries")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"add", "delete", "update", "clear",
		"has", "query", "has-stmt", "about", "classesof",
		"load", "dump", "test",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "kb.db", dbFlag.DefValue)

	driverFlag := cmd.PersistentFlags().Lookup("driver")
	require.NotNil(t, driverFlag)
	assert.Equal(t, "sqlite3", driverFlag.DefValue)

	modelFlag := cmd.PersistentFlags().Lookup("model")
	require.NotNil(t, modelFlag)
	assert.Equal(t, "m", modelFlag.Shorthand)
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		command string
		flag    string
		defVal  string
	}{
		{"add", "inferred", "false"},
		{"query", "var", "[]"},
		{"classesof", "direct", "false"},
		{"dump", "output", ""},
		{"test", "update", "false"},
		{"test", "filter", ""},
		{"test", "parallel", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{tt.command})
			require.NoError(t, err)
			f := sub.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.defVal, f.DefValue)
		})
	}
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, _, err := runCLI(t, "--db", tempDB(t), "--format", "xml", "clear")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRoot_UnknownDriver(t *testing.T) {
	_, _, err := runCLI(t, "--db", tempDB(t), "--driver", "postgres", "clear")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRoot_PureGoDriver(t *testing.T) {
	db := tempDB(t)
	_, _, err := runCLI(t, "--db", db, "--driver", "sqlite", "add", "Rex type Dog")
	require.NoError(t, err)

	out, _, err := runCLI(t, "--db", db, "has-stmt", "Rex type Dog")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "kb.yaml")
	db := filepath.Join(dir, "pets.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"database: "+db+"\ndefault_model: pets\nmodels: [pets, wild]\n"), 0644))

	out, _, err := runCLI(t, "--config", cfgPath, "add", "Rex type Dog")
	require.NoError(t, err)
	assert.Contains(t, out, "in model pets")

	_, _, err = runCLI(t, "--config", cfgPath, "-m", "wild", "add", "Wolf type Dog")
	require.NoError(t, err)

	// Read scope comes from the config: both models.
	out, _, err = runCLI(t, "--config", cfgPath, "query", "--var", "x", "?x type Dog")
	require.NoError(t, err)
	assert.Equal(t, "Rex\nWolf\n", out)

	// --model overrides it.
	out, _, err = runCLI(t, "--config", cfgPath, "--model", "pets", "query", "--var", "x", "?x type Dog")
	require.NoError(t, err)
	assert.Equal(t, "Rex\n", out)

	_, err = os.Stat(db)
	assert.NoError(t, err, "database should be created at the configured path")
}

func TestRoot_BadConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("databse: typo.db\n"), 0644))

	_, _, err := runCLI(t, "--config", cfgPath, "clear")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRoot_VerboseLogsToStderr(t *testing.T) {
	out, errOut, err := runCLI(t, "--db", tempDB(t), "--verbose", "add", "Rex type Dog")
	require.NoError(t, err)
	assert.Contains(t, errOut, "opening database")
	assert.Contains(t, errOut, "level=DEBUG")
	assert.NotContains(t, out, "opening database")
}

func TestRoot_QuietByDefault(t *testing.T) {
	_, errOut, err := runCLI(t, "--db", tempDB(t), "add", "Rex type Dog")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "level=DEBUG")
}
