package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-flowviz/pkg/logging"
	"github.com/dd0wney/cluso-flowviz/pkg/visualization"
)

func TestDefaultResolvesToSmallDataset(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	cfg := Default()
	require.NoError(t, cfg.Resolve())
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "companies_small.csv", cfg.Input.Companies)
	assert.Equal(t, "edges_small.csv", cfg.Input.Edges)
	assert.Equal(t, "small_network_visualization", cfg.Output.NetworkName)
	assert.Equal(t, "small_max_flow_visualization", cfg.Output.FlowName)
	assert.Equal(t, filepath.Join(".", DefaultFlowResults), cfg.FlowResultsPath())
	assert.Equal(t, PolicyDegrade, cfg.Render.OnMissingEndpoint)
}

func TestResolveKeepsExplicitNames(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	cfg := Default()
	cfg.Dataset = "50"
	cfg.Input.Dir = "/data"
	cfg.Input.Edges = "/elsewhere/edges.csv"
	require.NoError(t, cfg.Resolve())

	assert.Equal(t, "/data/sector_mapping_50.csv", cfg.CompaniesPath())
	assert.Equal(t, "/elsewhere/edges.csv", cfg.EdgesPath())
	assert.Equal(t, "50_max_flow_visualization", cfg.Output.FlowName)
}

func TestResolveUnknownDataset(t *testing.T) {
	cfg := Default()
	cfg.Dataset = "huge"
	assert.ErrorIs(t, cfg.Resolve(), ErrUnknownDataset)
}

func TestApplyEnvLogLevel(t *testing.T) {
	t.Setenv(logging.LevelEnv, "debug")
	cfg := Default()
	cfg.ApplyEnv()
	require.NoError(t, cfg.Resolve())
	assert.Equal(t, logging.DebugLevel, cfg.LogLevel())
}

func TestResolveLeavesLogLevelAlone(t *testing.T) {
	t.Setenv(logging.LevelEnv, "debug")
	cfg := Default()
	cfg.Log.Level = "error"
	require.NoError(t, cfg.Resolve())
	assert.Equal(t, logging.ErrorLevel, cfg.LogLevel())
}

func TestApplyEnvRejectsUnknownLevel(t *testing.T) {
	t.Setenv(logging.LevelEnv, "verbose")
	cfg := Default()
	cfg.ApplyEnv()
	require.NoError(t, cfg.Resolve())
	assert.ErrorContains(t, cfg.Validate(), "log.level")
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowviz.yaml")
	body := `
dataset: "50"
input:
  dir: testdata
render:
  format: dot
  on_missing_endpoint: abort
layout:
  seed: 7
style:
  flow_edge_color: "#0000ff"
output:
  s3:
    bucket: plots
    region: eu-central-1
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Resolve())
	require.NoError(t, cfg.Validate())

	assert.Equal(t, visualization.FormatDOT, cfg.Render.Format)
	assert.Equal(t, PolicyAbort, cfg.Render.OnMissingEndpoint)
	assert.Equal(t, int64(7), cfg.Layout.Seed)
	// unset keys keep their defaults
	assert.Equal(t, visualization.DefaultLayoutConfig().Width, cfg.Layout.Width)
	assert.Equal(t, visualization.LayoutForce, cfg.Render.Layout)
	assert.True(t, cfg.Output.S3.Enabled())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render: [unclosed"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateCollectsEveryError(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	cfg := Default()
	require.NoError(t, cfg.Resolve())
	cfg.Render.Format = "png"
	cfg.Render.OnMissingEndpoint = "ignore"
	cfg.Layout.Iterations = 0
	cfg.Output.S3.Bucket = "plots"

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"render.format", "render.on_missing_endpoint", "layout.iterations", "output.s3.region"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{"50", "small"}, PresetNames())
}
