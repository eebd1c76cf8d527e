package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/artifact"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/version"
)

type versionPayload struct {
	Tool          string `json:"tool"`
	Version       string `json:"version"`
	ModelFormat   string `json:"model_format"`
	FormatVersion uint16 `json:"format_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildDate     string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build and model format versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload := versionPayload{
				Tool:          "emotionctl",
				Version:       version.Version,
				ModelFormat:   artifact.Format,
				FormatVersion: artifact.FormatVersion,
				GitCommit:     version.GitCommit,
				BuildDate:     version.BuildDate,
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			case "pretty":
				fmt.Fprintf(out, "emotionctl %s\n", version.String())
				fmt.Fprintf(out, "model format: %s v%d\n", payload.ModelFormat, payload.FormatVersion)
				return nil
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
