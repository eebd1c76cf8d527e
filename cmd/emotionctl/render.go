package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/training"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/usecase"
)

const barWidth = 30

type palette struct {
	headline *color.Color
	label    *color.Color
	bar      *color.Color
	dim      *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		headline: color.New(color.FgGreen, color.Bold),
		label:    color.New(color.FgCyan),
		bar:      color.New(color.FgYellow),
		dim:      color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.headline, p.label, p.bar, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func renderPredictionPretty(out io.Writer, p *predictPayload, aliases map[string]string, useColor bool) {
	pal := newPalette(useColor)

	fmt.Fprintln(out, pal.headline.Sprint(p.Display))
	if p.NormalizedText != "" {
		fmt.Fprintln(out, pal.dim.Sprintf("normalized: %s", p.NormalizedText))
	}

	names := make([]string, len(p.Ranked))
	width := 0
	for i, r := range p.Ranked {
		names[i] = aliasFor(aliases, r.Label)
		if w := runewidth.StringWidth(names[i]); w > width {
			width = w
		}
	}
	for i, r := range p.Ranked {
		bar := strings.Repeat("█", int(r.Probability*barWidth+0.5))
		fmt.Fprintf(out, "  %s  %4.2f  %s\n",
			pal.label.Sprint(runewidth.FillRight(names[i], width)),
			r.Probability,
			pal.bar.Sprint(bar),
		)
	}
}

// aliasFor shows "alias (label)" when an alias is configured
func aliasFor(aliases map[string]string, label string) string {
	alias, ok := aliases[label]
	if !ok {
		alias, ok = aliases[strings.ToLower(label)]
	}
	if !ok || alias == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", alias, label)
}

func renderTrainPretty(out io.Writer, o *usecase.TrainOutput, useColor bool) {
	pal := newPalette(useColor)

	fmt.Fprintln(out, pal.headline.Sprintf("model %s saved to %s", o.ModelID, o.ModelPath))
	fmt.Fprintf(out, "labels:   %s\n", strings.Join(o.Labels, ", "))
	fmt.Fprintf(out, "features: %d\n", o.Features)
	fmt.Fprintf(out, "duration: %dms\n", o.DurationMs)
	if o.Recorded {
		fmt.Fprintln(out, "run recorded")
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, training.FormatReport(o.Report))
}

func renderRunsPretty(out io.Writer, o *usecase.TrainingRunListOutput) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL ID\tCREATED\tLABELS\tFEATURES\tACCURACY\tDATASET")
	for _, r := range o.Runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.4f\t%s\n",
			r.ModelID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			len(r.Labels),
			r.Features,
			r.Accuracy,
			r.DatasetPath,
		)
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "%d of %d runs\n", len(o.Runs), o.Total)
}
