package training

import (
	"math"
	"math/rand"
	"sort"
)

// StratifiedSplit partitions row positions into train and test sets so that
// every label keeps its relative frequency in both. Each label contributes
// round(count*testSize) rows to the test set, at least one and never all of
// them. The result only depends on the labels, their order and the seed.
func StratifiedSplit(y []int, numLabels int, testSize float64, seed int64) (train, test []int) {
	byLabel := make([][]int, numLabels)
	for i, label := range y {
		byLabel[label] = append(byLabel[label], i)
	}

	rng := rand.New(rand.NewSource(seed))
	for _, rows := range byLabel {
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

		nTest := int(math.Round(float64(len(rows)) * testSize))
		if nTest == 0 && len(rows) >= 2 && testSize > 0 {
			nTest = 1
		}
		if nTest > len(rows)-1 {
			nTest = len(rows) - 1
		}
		if nTest < 0 {
			nTest = 0
		}
		test = append(test, rows[:nTest]...)
		train = append(train, rows[nTest:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test
}
