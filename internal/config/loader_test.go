package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSourcesDir, cfg.SourcesDir)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, "", cfg.DatabasePath)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultEnv, cfg.Environment)
	assert.False(t, cfg.Verbose)
}

func TestLoad_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "lakeline.yaml")
	content := `
sources_dir: extracts
output_dir: warehouse
environment: prod
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "extracts", cfg.SourcesDir)
	assert.Equal(t, "warehouse", cfg.OutputDir)
	assert.Equal(t, "prod", cfg.Environment)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
}

func TestLoad_ConfigFileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "lakeline.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output_dir: from_file\n"), 0o644))

	t.Setenv("LAKELINE_OUTPUT_DIR", "from_env")

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.OutputDir)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("LAKELINE_OUTPUT_DIR", "from_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output-dir", "", "")
	flags.String("state", "", "")
	flags.String("env", "", "")
	require.NoError(t, flags.Set("output-dir", "from_flag"))
	require.NoError(t, flags.Set("state", "custom/state.db"))
	require.NoError(t, flags.Set("env", "staging"))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.OutputDir)
	assert.Equal(t, "custom/state.db", cfg.StatePath)
	assert.Equal(t, "staging", cfg.Environment)
}

func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output-dir", "flag_default", "")

	cfg, err := Load("", flags)
	require.NoError(t, err)

	// a flag left at its default must not shadow the config default
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

func TestConfig_SourcePaths(t *testing.T) {
	cfg := &Config{SourcesDir: "data"}

	assert.Equal(t, filepath.Join("data", "customers.csv"), cfg.CustomersPath())
	assert.Equal(t, filepath.Join("data", "work_orders.csv"), cfg.WorkOrdersPath())
	assert.Equal(t, filepath.Join("data", "parts_sales.csv"), cfg.PartsSalesPath())
}
