// Package config loads the flowviz run configuration from YAML, applies dataset
// presets and environment overrides, and validates the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-flowviz/pkg/logging"
	"github.com/dd0wney/cluso-flowviz/pkg/style"
	"github.com/dd0wney/cluso-flowviz/pkg/validation"
	"github.com/dd0wney/cluso-flowviz/pkg/visualization"
)

// Missing endpoint policies
const (
	PolicyDegrade = "degrade" // draw the degraded view and keep going
	PolicyAbort   = "abort"   // fail the run
)

// Policies lists the accepted on_missing_endpoint values
var Policies = []string{PolicyDegrade, PolicyAbort}

// DefaultFlowResults is the flow results file name looked up in the input directory
const DefaultFlowResults = "max_flow_results.json"

// Config is the complete run configuration
type Config struct {
	Dataset string                     `yaml:"dataset"`
	Input   InputConfig                `yaml:"input"`
	Output  OutputConfig               `yaml:"output"`
	Render  RenderConfig               `yaml:"render"`
	Layout  visualization.LayoutConfig `yaml:"layout"`
	Style   style.Config               `yaml:"style"`
	Log     LogConfig                  `yaml:"log"`
	Metrics MetricsConfig              `yaml:"metrics"`
}

// InputConfig names the input tables. Relative paths are resolved against Dir.
type InputConfig struct {
	Dir         string `yaml:"dir"`
	Companies   string `yaml:"companies"`
	Edges       string `yaml:"edges"`
	FlowResults string `yaml:"flow_results"`
}

// OutputConfig names the artifacts. Names carry no extension; the renderer adds it.
type OutputConfig struct {
	Dir         string   `yaml:"dir"`
	NetworkName string   `yaml:"network_name"`
	FlowName    string   `yaml:"flow_name"`
	Compress    bool     `yaml:"compress"` // snappy-compress every artifact
	S3          S3Config `yaml:"s3"`
}

// S3Config enables artifact upload when Bucket is set
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// Enabled reports whether artifacts should be uploaded
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

type RenderConfig struct {
	Format            string `yaml:"format"`
	Layout            string `yaml:"layout"`
	OnMissingEndpoint string `yaml:"on_missing_endpoint"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig enables a prometheus textfile export when Textfile is set
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration of a plain run over the small dataset
func Default() *Config {
	return &Config{
		Dataset: "small",
		Input: InputConfig{
			Dir:         ".",
			FlowResults: DefaultFlowResults,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Render: RenderConfig{
			Format:            visualization.FormatSVG,
			Layout:            visualization.LayoutForce,
			OnMissingEndpoint: PolicyDegrade,
		},
		Layout: visualization.DefaultLayoutConfig(),
		Style:  style.DefaultConfig(),
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides file values with the environment. Call it before flags are
// applied so an explicit flag wins.
func (c *Config) ApplyEnv() {
	if level, ok := logging.LevelFromEnv(); ok {
		c.Log.Level = level
	}
}

// Resolve fills every input and output name left empty from the dataset preset.
// Call it after flags are applied.
func (c *Config) Resolve() error {
	if c.Dataset != "" {
		preset, ok := Presets[c.Dataset]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDataset, c.Dataset)
		}
		c.Input.Companies = validation.DefaultOr(c.Input.Companies, preset.Companies)
		c.Input.Edges = validation.DefaultOr(c.Input.Edges, preset.Edges)
		c.Output.NetworkName = validation.DefaultOr(c.Output.NetworkName, preset.NetworkName)
		c.Output.FlowName = validation.DefaultOr(c.Output.FlowName, preset.FlowName)
	}
	c.Input.FlowResults = validation.DefaultOr(c.Input.FlowResults, DefaultFlowResults)
	return nil
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

func (c *Config) inputPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Input.Dir, name)
}

// CompaniesPath returns the resolved company table path
func (c *Config) CompaniesPath() string { return c.inputPath(c.Input.Companies) }

// EdgesPath returns the resolved edge table path
func (c *Config) EdgesPath() string { return c.inputPath(c.Input.Edges) }

// FlowResultsPath returns the resolved flow results path
func (c *Config) FlowResultsPath() string { return c.inputPath(c.Input.FlowResults) }

// Validate checks a resolved configuration
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("flowviz config").
		Required("input.companies", c.Input.Companies).
		Required("input.edges", c.Input.Edges).
		Required("output.dir", c.Output.Dir).
		Required("output.network_name", c.Output.NetworkName).
		Required("output.flow_name", c.Output.FlowName).
		OneOf("render.format", c.Render.Format, visualization.Formats).
		OneOf("render.layout", c.Render.Layout, visualization.LayoutNames).
		OneOf("render.on_missing_endpoint", c.Render.OnMissingEndpoint, Policies).
		OneOf("log.level", c.Log.Level, logging.LevelNames).
		PositiveFloat("layout.width", c.Layout.Width).
		PositiveFloat("layout.height", c.Layout.Height).
		Positive("layout.iterations", c.Layout.Iterations).
		NonNegativeFloat("layout.padding", c.Layout.Padding).
		Custom("layout.padding", func() error {
			if 2*c.Layout.Padding >= c.Layout.Width || 2*c.Layout.Padding >= c.Layout.Height {
				return fmt.Errorf("padding %v leaves no drawing area", c.Layout.Padding)
			}
			return nil
		}).
		Custom("style", c.Style.Validate).
		When(c.Output.S3.Enabled(), func(v *validation.ConfigValidator) {
			v.Required("output.s3.region", c.Output.S3.Region)
		})
	return cv.Validate()
}
