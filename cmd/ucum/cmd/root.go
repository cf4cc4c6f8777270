// Package cmd provides the commands of the ucum CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/govalues/ucum"
	"github.com/govalues/ucum/internal/config"
	"github.com/govalues/ucum/internal/logging"
	"github.com/govalues/ucum/internal/metrics"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	asJSON  bool

	cfg       config.Config
	log       *zap.Logger
	svc       *ucum.Service
	prom      *prometheus.Registry
	collector *metrics.Collector
}

// NewRootCommand returns the ucum command with all its subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:   "ucum",
		Short: "Validate, analyse and convert UCUM unit expressions",
		Long: `ucum works with the Unified Code for Units of Measure.

It validates unit expressions, reduces them to canonical base units and
converts measured values between comparable units.

Examples:
  ucum validate mm[Hg] kg.m/s2
  ucum convert 100 Cel [degF]
  ucum canonical N
  ucum serve --addr :8080`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./ucum.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVar(&a.asJSON, "json", false, "print results as JSON")
	flags.String("log-level", "", "minimum log level")
	flags.String("dataset", "", "unit dataset file (default is the embedded UCUM essence)")
	flags.Int("cache", 0, "number of canonical forms to memoize")
	a.bind(root, map[string]string{
		"logging.level":      "log-level",
		"registry.dataset":   "dataset",
		"registry.cacheSize": "cache",
	})

	root.AddCommand(
		a.validateCmd(),
		a.checkCmd(),
		a.analyseCmd(),
		a.canonicalCmd(),
		a.formsCmd(),
		a.propertiesCmd(),
		a.convertCmd(),
		a.algebraCmd("multiply", "Multiply two measured values", (*ucum.Service).Multiply),
		a.algebraCmd("divide", "Divide a measured value by another", (*ucum.Service).DivideBy),
		a.serveCmd(),
		a.versionCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) bind(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// init loads the configuration and builds the service.
func (a *app) init(*cobra.Command, []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if a.log, err = logging.New(cfg.Logging); err != nil {
		return err
	}
	a.cfg = cfg

	reg := ucum.Essence()
	if cfg.Registry.Dataset != "" {
		if reg, err = loadRegistry(cfg.Registry.Dataset); err != nil {
			return err
		}
		a.log.Info("loaded dataset",
			zap.String("path", cfg.Registry.Dataset),
			zap.String("version", reg.Identification().Version),
		)
	}

	opts := []ucum.Option{ucum.WithLogger(a.log), ucum.WithCache(cfg.Registry.CacheSize)}
	if cfg.Metrics.Enabled {
		a.prom = prometheus.NewRegistry()
		a.collector = metrics.NewCollector(cfg.Metrics.Namespace, a.prom)
		opts = append(opts, ucum.WithMetrics(a.collector))
	}
	a.svc = ucum.NewService(reg, opts...)
	return nil
}

func loadRegistry(path string) (*ucum.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset")
	}
	defer f.Close()
	reg, err := ucum.LoadRegistry(f)
	return reg, errors.Wrapf(err, "loading dataset %q", path)
}

// print writes v as JSON with --json and text otherwise.
func (a *app) print(cmd *cobra.Command, v any, text string) error {
	if a.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of the unit dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := a.svc.Identification()
			return a.print(cmd, id, fmt.Sprintf("UCUM %v (%v)", id.Version, id.RevisionDate))
		},
	}
}
