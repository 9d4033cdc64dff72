package root_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-analyzer/cmd/root"
	"fjacquet/statement-analyzer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "statement-analyzer", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "bank statements")
	assert.Contains(t, root.Cmd.Long, "--date-order")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRun)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init()

	tests := []struct {
		name      string
		shorthand string
	}{
		{"input", "i"},
		{"output", "o"},
		{"config", ""},
		{"date-order", ""},
		{"log-level", ""},
		{"encoding", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func withFlags(t *testing.T, flags root.CommonFlags) {
	t.Helper()
	saved := root.SharedFlags
	root.SharedFlags = flags
	t.Cleanup(func() { root.SharedFlags = saved })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_DateOrderFlagOverridesFile(t *testing.T) {
	path := writeConfig(t, "extraction:\n  date_order: dmy\n")
	withFlags(t, root.CommonFlags{ConfigFile: path, DateOrder: "MDY"})

	cfg, err := root.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mdy", cfg.Extraction.DateOrder)
}

func TestLoadConfig_CommandOverrides(t *testing.T) {
	path := writeConfig(t, "extraction:\n  date_order: dmy\n")
	withFlags(t, root.CommonFlags{ConfigFile: path})

	cfg, err := root.LoadConfig(config.WithValue("output.currency", "chf"))
	require.NoError(t, err)
	assert.Equal(t, "CHF", cfg.Output.Currency)
}

func TestLoadConfig_MissingDateOrder(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")
	withFlags(t, root.CommonFlags{ConfigFile: path})

	_, err := root.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestNewContainer(t *testing.T) {
	path := writeConfig(t, "extraction:\n  date_order: dmy\nlog:\n  level: warn\n")
	withFlags(t, root.CommonFlags{ConfigFile: path, Encoding: "windows-1251"})

	c, err := root.NewContainer(nil)
	require.NoError(t, err)
	assert.Same(t, c.GetLogger(), root.Log)
	assert.Equal(t, "dmy", c.GetConfig().Extraction.DateOrder)
}
