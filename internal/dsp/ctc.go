package dsp

import (
	"fmt"
	"strings"
)

// GreedyDecodeResult is the output of one greedy collapse pass.
type GreedyDecodeResult struct {
	Text       string
	Confidence float64
}

// GreedyCollapseDecode turns a (time, vocabulary) matrix of per-frame symbol
// probabilities into text. Per frame it takes the argmax symbol (exact
// probability ties resolve to the lowest symbol index) and emits it only when
// it differs from the blank symbol and from the previous frame's argmax.
// Confidence is the mean argmax probability over the frames that emitted a
// symbol, and 0.0 when nothing was emitted.
func GreedyCollapseDecode(probs [][]float64, vocab []string, blankID int) (GreedyDecodeResult, error) {
	if blankID < 0 || blankID >= len(vocab) {
		return GreedyDecodeResult{}, fmt.Errorf("blank id %d out of vocabulary range %d", blankID, len(vocab))
	}

	var sb strings.Builder
	var probSum float64
	emitted := 0

	prev := -1
	for t, row := range probs {
		if len(row) != len(vocab) {
			return GreedyDecodeResult{}, fmt.Errorf("frame %d has %d classes, vocabulary has %d", t, len(row), len(vocab))
		}
		best := 0
		bestProb := row[0]
		for i := 1; i < len(row); i++ {
			if row[i] > bestProb {
				best = i
				bestProb = row[i]
			}
		}
		if best != blankID && best != prev {
			sb.WriteString(vocab[best])
			probSum += bestProb
			emitted++
		}
		prev = best
	}

	text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "  ", " "))
	confidence := 0.0
	if emitted > 0 {
		confidence = probSum / float64(emitted)
	}
	return GreedyDecodeResult{Text: text, Confidence: confidence}, nil
}
