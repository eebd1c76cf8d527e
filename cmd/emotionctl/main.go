package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/config"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/logger"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/version"
)

type globalOptions struct {
	configPath string
	logLevel   string
	color      string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "emotionctl",
		Short:         "Train and query the emotion classifier",
		Long:          "emotionctl fits emotion classification models from labeled text and runs single predictions against a saved model.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./config.yaml or ./config/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&opts.color, "color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(newTrainCmd(opts))
	root.AddCommand(newPredictCmd(opts))
	root.AddCommand(newRunsCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// main runs the CLI and exits with status 1 on any error
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and a logger that writes to stderr, leaving
// stdout to command output
func (o *globalOptions) setup() (*config.Config, *zap.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	cfg.Log.Output = "stderr"
	cfg.Log.Format = "console"
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

func (o *globalOptions) useColor(out io.Writer) bool {
	switch strings.ToLower(o.color) {
	case "on":
		return true
	case "off":
		return false
	default:
		f, ok := out.(*os.File)
		return ok && isTerminal(f)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
