package training

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
)

// Evaluate compares predicted label indices with the true ones.
// Precision of a label that was never predicted is reported as 0.
func Evaluate(labels []string, yTrue, yPred []int) *entity.EvaluationReport {
	k := len(labels)
	confusion := make([][]int, k)
	for i := range confusion {
		confusion[i] = make([]int, k)
	}
	correct := 0
	for i := range yTrue {
		confusion[yTrue[i]][yPred[i]]++
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	report := &entity.EvaluationReport{
		Labels:    make([]entity.LabelMetrics, k),
		Confusion: confusion,
		TestSize:  len(yTrue),
	}
	if len(yTrue) > 0 {
		report.Accuracy = float64(correct) / float64(len(yTrue))
	}

	report.MacroAvg.Label = "macro avg"
	report.WeightedAvg.Label = "weighted avg"
	for c := 0; c < k; c++ {
		var tp, predicted, support int
		for other := 0; other < k; other++ {
			predicted += confusion[other][c]
			support += confusion[c][other]
		}
		tp = confusion[c][c]

		m := entity.LabelMetrics{Label: labels[c], Support: support}
		if predicted > 0 {
			m.Precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			m.Recall = float64(tp) / float64(support)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Labels[c] = m

		report.MacroAvg.Precision += m.Precision / float64(k)
		report.MacroAvg.Recall += m.Recall / float64(k)
		report.MacroAvg.F1 += m.F1 / float64(k)
		report.MacroAvg.Support += support
		if len(yTrue) > 0 {
			w := float64(support) / float64(len(yTrue))
			report.WeightedAvg.Precision += m.Precision * w
			report.WeightedAvg.Recall += m.Recall * w
			report.WeightedAvg.F1 += m.F1 * w
		}
		report.WeightedAvg.Support += support
	}
	return report
}

// FormatReport renders a report as an aligned text table
func FormatReport(report *entity.EvaluationReport) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "\tprecision\trecall\tf1-score\tsupport\t")
	row := func(m entity.LabelMetrics) {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", m.Label, m.Precision, m.Recall, m.F1, m.Support)
	}
	for _, m := range report.Labels {
		row(m)
	}
	fmt.Fprintln(w, "\t\t\t\t\t")
	fmt.Fprintf(w, "accuracy\t\t\t%.2f\t%d\t\n", report.Accuracy, report.TestSize)
	row(report.MacroAvg)
	row(report.WeightedAvg)
	w.Flush()
	return b.String()
}
