package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dd0wney/cluso-flowviz/pkg/config"
	"github.com/dd0wney/cluso-flowviz/pkg/logging"
	"github.com/dd0wney/cluso-flowviz/pkg/metrics"
	"github.com/dd0wney/cluso-flowviz/pkg/pipeline"
	"github.com/dd0wney/cluso-flowviz/pkg/report"
	"github.com/dd0wney/cluso-flowviz/pkg/visualization"
)

type options struct {
	configFile        string
	dataset           string
	inputDir          string
	edges             string
	companies         string
	flowResults       string
	outDir            string
	format            string
	layout            string
	logLevel          string
	onMissingEndpoint string
	metricsTextfile   string
}

func parseFlags(args []string) (*options, map[string]bool, error) {
	fs := flag.NewFlagSet("flowviz", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&opts.dataset, "dataset", "", "Dataset preset: "+strings.Join(config.PresetNames(), ", "))
	fs.StringVar(&opts.inputDir, "input-dir", "", "Directory holding the input tables")
	fs.StringVar(&opts.edges, "edges", "", "Edge table (Company1,Company2,Weight)")
	fs.StringVar(&opts.companies, "companies", "", "Company table (Company,Sector)")
	fs.StringVar(&opts.flowResults, "flow", "", "Max flow results JSON")
	fs.StringVar(&opts.outDir, "out", "", "Output directory")
	fs.StringVar(&opts.format, "format", "", "Output format: "+strings.Join(visualization.Formats, ", "))
	fs.StringVar(&opts.layout, "layout", "", "Layout: "+strings.Join(visualization.LayoutNames, ", "))
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.onMissingEndpoint, "on-missing-endpoint", "", "Missing source/sink policy: "+strings.Join(config.Policies, ", "))
	fs.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write prometheus metrics to this file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, nil
}

// apply overrides the config with every flag given on the command line
func (o *options) apply(cfg *config.Config, set map[string]bool) {
	overrides := []struct {
		flag   string
		target *string
		value  string
	}{
		{"dataset", &cfg.Dataset, o.dataset},
		{"input-dir", &cfg.Input.Dir, o.inputDir},
		{"edges", &cfg.Input.Edges, o.edges},
		{"companies", &cfg.Input.Companies, o.companies},
		{"flow", &cfg.Input.FlowResults, o.flowResults},
		{"out", &cfg.Output.Dir, o.outDir},
		{"format", &cfg.Render.Format, o.format},
		{"layout", &cfg.Render.Layout, o.layout},
		{"log-level", &cfg.Log.Level, o.logLevel},
		{"on-missing-endpoint", &cfg.Render.OnMissingEndpoint, o.onMissingEndpoint},
		{"metrics-textfile", &cfg.Metrics.Textfile, o.metricsTextfile},
	}
	for _, ov := range overrides {
		if set[ov.flag] {
			*ov.target = ov.value
		}
	}
}

func loadConfig(args []string) (*config.Config, error) {
	opts, set, err := parseFlags(args)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	opts.apply(cfg, set)
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowviz: %v\n", err)
		os.Exit(2)
	}

	base := logging.NewDefaultLogger()
	base.SetLevel(cfg.LogLevel())
	logger := base.With(logging.Component("flowviz"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx, cfg, pipeline.Deps{
		Logger:  logger,
		Metrics: metrics.DefaultRegistry(),
	})
	if res != nil {
		fmt.Println(report.Render(res, err))
	}
	if err != nil {
		if res == nil {
			fmt.Fprintf(os.Stderr, "flowviz: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
