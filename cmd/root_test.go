package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteReportsErrorOnce(t *testing.T) {
	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetArgs([]string{"validate", filepath.Join(t.TempDir(), "missing.txt")})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decklist not found")
	assert.Empty(t, stderr.String(), "main prints the error, cobra must not")
	assert.Empty(t, stdout.String())
}

func newConfigFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadConfigExplicitPathMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.toml")
	cmd := newConfigFlagCmd(t, "--config", path)

	_, err := loadConfig(cmd)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "proxymancer", "config.toml"), configPath(newConfigFlagCmd(t)))
	assert.Equal(t, "custom.toml", configPath(newConfigFlagCmd(t, "--config", "custom.toml")))
}
