package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
)

func TestAliasFor(t *testing.T) {
	aliases := map[string]string{"joy": "Alegría", "sadness": ""}

	assert.Equal(t, "Alegría (joy)", aliasFor(aliases, "joy"))
	assert.Equal(t, "Alegría (JOY)", aliasFor(aliases, "JOY"))
	assert.Equal(t, "sadness", aliasFor(aliases, "sadness"))
	assert.Equal(t, "anger", aliasFor(nil, "anger"))
}

func TestRenderPredictionPretty(t *testing.T) {
	payload := &predictPayload{
		Display:        "ALEGRÍA (75%)",
		NormalizedText: "I am happy",
		Ranked: []entity.LabelProbability{
			{Label: "joy", Probability: 0.75},
			{Label: "anger", Probability: 0.25},
		},
	}

	var out bytes.Buffer
	renderPredictionPretty(&out, payload, map[string]string{"joy": "Alegría"}, false)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ALEGRÍA (75%)", lines[0])
	assert.Equal(t, "normalized: I am happy", lines[1])
	assert.Contains(t, lines[2], "Alegría (joy)")
	assert.Contains(t, lines[2], "0.75")
	assert.Contains(t, lines[3], "anger")

	// label columns line up despite the accented alias
	col := func(line string) int {
		return runewidth.StringWidth(line[:strings.Index(line, "0.")])
	}
	assert.Equal(t, col(lines[2]), col(lines[3]))
	assert.Equal(t, 23, strings.Count(lines[2], "█"))
	assert.Equal(t, 8, strings.Count(lines[3], "█"))
}
