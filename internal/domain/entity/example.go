package entity

import "sort"

// TrainingExample is one labeled text record
type TrainingExample struct {
	Text  string `json:"text" csv:"text"`
	Label string `json:"label" csv:"label"`
}

// DistinctLabels returns the label space of examples in lexicographic order
func DistinctLabels(examples []TrainingExample) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, ex := range examples {
		if _, ok := seen[ex.Label]; ok {
			continue
		}
		seen[ex.Label] = struct{}{}
		labels = append(labels, ex.Label)
	}
	sort.Strings(labels)
	return labels
}

// LabelCounts returns the number of examples per label
func LabelCounts(examples []TrainingExample) map[string]int {
	counts := make(map[string]int)
	for _, ex := range examples {
		counts[ex.Label]++
	}
	return counts
}
