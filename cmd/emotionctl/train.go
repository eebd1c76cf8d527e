package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/adapter/repository/postgres"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/app"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/repository"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/artifact"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/dataset"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/stages"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/training"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/usecase"
)

type trainOptions struct {
	dataset string
	model   string
	format  string
	record  bool
}

func newTrainCmd(global *globalOptions) *cobra.Command {
	opts := &trainOptions{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit a model from a labeled dataset and save it",
		Long: "Fit the TF-IDF, linear SVM and calibration pipeline on a JSON, JSONL or CSV dataset " +
			"with text and label fields, print the held-out evaluation and save the model.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd, global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "dataset path (default training.dataset_path)")
	cmd.Flags().StringVar(&opts.model, "model", "", "output model path (default model.path)")
	cmd.Flags().StringVar(&opts.format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&opts.record, "record", false, "record the run in the database")
	return cmd
}

func runTrain(cmd *cobra.Command, global *globalOptions, opts *trainOptions) error {
	format := strings.ToLower(opts.format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
	}

	cfg, log, err := global.setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	input := &usecase.TrainInput{
		DatasetPath: firstNonEmpty(opts.dataset, cfg.Training.DatasetPath),
		ModelPath:   firstNonEmpty(opts.model, cfg.Model.Path),
	}

	var runRepo repository.TrainingRunRepository
	if opts.record {
		if !cfg.Database.Enabled {
			return errors.New("--record needs database.enabled")
		}
		db, err := app.OpenDatabase(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer app.CloseDatabase(db)
		runRepo = postgres.NewTrainingRunRepository(db)
	}

	trainer := training.NewTrainer(
		stages.New(app.StagesConfig(&cfg.Training)),
		app.TrainerConfig(&cfg.Training),
		log,
	)
	uc := usecase.NewTrainingUsecase(dataset.FileLoader{}, trainer, artifact.FileStore{}, runRepo, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output, err := uc.Train(ctx, input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}
	renderTrainPretty(out, output, global.useColor(out))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
