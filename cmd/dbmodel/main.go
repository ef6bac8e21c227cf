package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/syssam/dbmodel"
	"github.com/syssam/dbmodel/compiler/gen"
)

// cli holds the state shared by the commands of one invocation.
type cli struct {
	configPath string
	logLevel   string
	logFormat  string
	model      string

	cfg    *config
	logger *slog.Logger
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	root := &cobra.Command{
		Use:   "dbmodel",
		Short: "Generate database DDL and ORM classes from a model file",
		Long: `dbmodel reads a model file (JSON, YAML or XML) describing tables and views,
validates it, and generates the DDL of a database dialect and the ORM classes
of a host language for every relation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file (default: ./dbmodel.yaml when present)")
	root.PersistentFlags().StringVarP(&c.model, "model", "m", "", "Model file, overrides the config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(
		newGenerateCmd(c),
		newValidateCmd(c),
		newDescribeCmd(c),
		newLanguagesCmd(c),
	)
	return root
}

// setup loads the configuration and builds the logger of the run.
func (c *cli) setup() error {
	logger, err := newLogger(os.Stderr, c.logLevel, c.logFormat)
	if err != nil {
		return err
	}
	c.logger = logger.With("run_id", uuid.NewString())
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.model != "" {
		cfg.Model = c.model
	}
	c.cfg = cfg
	return nil
}

// load reads the model file of the configuration.
func (c *cli) load(extra ...gen.Option) (*dbmodel.Model, error) {
	if c.cfg.Model == "" {
		return nil, gen.NewConfigError("model", nil, "no model file given, use --model or the model key of the config file")
	}
	opts := append(c.cfg.options(), gen.WithLogger(c.logger))
	return dbmodel.Load(c.cfg.Model, append(opts, extra...)...)
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, gen.NewConfigError("log-level", level, "expect debug, info, warn or error")
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, gen.NewConfigError("log-format", format, "expect text or json")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(dbmodel.KindOf(err).ExitCode())
	}
}
