package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/app"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/artifact"
)

type predictOptions struct {
	model       string
	format      string
	noTranslate bool
}

type predictPayload struct {
	Label          string                    `json:"label"`
	Display        string                    `json:"display"`
	Confidence     float64                   `json:"confidence"`
	Distribution   map[string]float64        `json:"distribution"`
	Ranked         []entity.LabelProbability `json:"ranked"`
	NormalizedText string                    `json:"normalized_text,omitempty"`
	ModelID        string                    `json:"model_id"`
}

func newPredictCmd(global *globalOptions) *cobra.Command {
	opts := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict [text...]",
		Short: "Classify one text against a saved model",
		Long:  "Classify a text given as arguments, or read from stdin when no arguments are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.model, "model", "", "model path (default model.path)")
	cmd.Flags().StringVar(&opts.format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&opts.noTranslate, "no-translate", false, "treat input as already in the training language")
	return cmd
}

func runPredict(cmd *cobra.Command, global *globalOptions, opts *predictOptions, args []string) error {
	format := strings.ToLower(opts.format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
	}

	text, err := predictText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cfg, log, err := global.setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if opts.noTranslate {
		cfg.Translation.Enabled = false
	}

	model, err := artifact.Load(firstNonEmpty(opts.model, cfg.Model.Path))
	if err != nil {
		return err
	}

	rdb := app.OpenRedis(&cfg.Redis, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	result, err := app.NewEngine(cfg, model, rdb, log).Predict(cmd.Context(), model, text)
	if err != nil {
		return fmt.Errorf("%s: %w", entity.ErrorKind(err), err)
	}

	payload := predictPayload{
		Label:          result.Label,
		Display:        result.Display,
		Confidence:     result.Confidence,
		Distribution:   result.Distribution,
		Ranked:         result.Ranked(),
		NormalizedText: result.NormalizedText,
		ModelID:        model.Metadata.ModelID,
	}
	if payload.NormalizedText == text {
		payload.NormalizedText = ""
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	renderPredictionPretty(out, &payload, cfg.Inference.LabelAliases, global.useColor(out))
	return nil
}

func predictText(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		err := fmt.Errorf("%w: no text given as arguments or on stdin", entity.ErrInvalidInput)
		return "", fmt.Errorf("%s: %w", entity.ErrorKind(err), err)
	}
	return text, nil
}
