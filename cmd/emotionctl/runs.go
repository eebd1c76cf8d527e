package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/adapter/repository/postgres"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/app"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/usecase"
)

type runsOptions struct {
	limit  int
	offset int
	format string
}

func newRunsCmd(global *globalOptions) *cobra.Command {
	opts := &runsOptions{}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded training runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, global, opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 20, "maximum runs to list")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "runs to skip")
	cmd.Flags().StringVar(&opts.format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func runRuns(cmd *cobra.Command, global *globalOptions, opts *runsOptions) error {
	format := strings.ToLower(opts.format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
	}

	cfg, log, err := global.setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.Database.Enabled {
		return errors.New("training runs are stored in the database; set database.enabled")
	}
	db, err := app.OpenDatabase(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer app.CloseDatabase(db)

	uc := usecase.NewTrainingUsecase(nil, nil, nil, postgres.NewTrainingRunRepository(db), log)
	output, err := uc.ListRuns(cmd.Context(), opts.limit, opts.offset)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}
	renderRunsPretty(out, output)
	return nil
}
