package corpus

import (
	"fmt"
	"sort"

	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/types"
)

// Contribution is one distinct document token's pull on the score.
type Contribution struct {
	Token  types.Token `json:"token"`
	Weight float64     `json:"weight"`
	Count  int64       `json:"count"`
	Known  bool        `json:"known"`
}

// ScoreResult is the outcome of scoring one document against a model.
type ScoreResult struct {
	// Affinity is sigmoid(bias + mean weight), in (0,1). Values above the
	// base rate's sigmoid mean the document's tokens are more typical of
	// the reference corpus than an arbitrary token would be.
	Affinity       float64        `json:"affinity"`
	Bias           float64        `json:"bias"`
	MeanWeight     float64        `json:"mean_weight"`
	DocumentTokens int64          `json:"document_tokens"`
	UnknownTokens  int64          `json:"unknown_tokens"`
	Top            []Contribution `json:"top_contributors,omitempty"`
	Bottom         []Contribution `json:"bottom_contributors,omitempty"`
}

// Score rates how characteristic the document's tokens are of the model's
// reference corpus. The mean weight over all document token occurrences,
// shifted by the bias and squashed through the sigmoid, gives the affinity.
// Averaging rather than summing keeps scores comparable across document
// lengths.
//
// An empty document cannot be scored and maps to EMPTY_INPUT. A negative
// topContributors maps to INVALID_CONFIG; zero omits the contributor lists.
func (m *Model) Score(doc freq.Table, topContributors int) (*ScoreResult, error) {
	if doc.Total == 0 {
		return nil, types.NewError(types.ErrEmptyInput, "document has no tokens")
	}
	if topContributors < 0 {
		return nil, types.NewError(types.ErrInvalidConfig,
			fmt.Sprintf("top contributors must not be negative, got %d", topContributors))
	}

	var weighted float64
	var unknown int64
	contributions := make([]Contribution, 0, len(doc.Counts))
	for tok, count := range doc.Counts {
		w, known := m.Weight(tok)
		weighted += w * float64(count)
		if !known {
			unknown += count
		}
		contributions = append(contributions, Contribution{
			Token:  tok,
			Weight: w,
			Count:  count,
			Known:  known,
		})
	}

	mean := weighted / float64(doc.Total)
	result := &ScoreResult{
		Affinity:       Sigmoid(m.bias + mean),
		Bias:           m.bias,
		MeanWeight:     mean,
		DocumentTokens: doc.Total,
		UnknownTokens:  unknown,
	}

	if topContributors > 0 {
		result.Top = topBy(contributions, topContributors, false)
		result.Bottom = topBy(contributions, topContributors, true)
	}
	return result, nil
}

// topBy returns the k strongest contributions, heaviest first (or lightest
// first when ascending). Ties break by token text ascending, the same
// discipline frequency reports use.
func topBy(contributions []Contribution, k int, ascending bool) []Contribution {
	sorted := make([]Contribution, len(contributions))
	copy(sorted, contributions)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Weight != sorted[j].Weight {
			if ascending {
				return sorted[i].Weight < sorted[j].Weight
			}
			return sorted[i].Weight > sorted[j].Weight
		}
		return sorted[i].Token < sorted[j].Token
	})
	if k < len(sorted) {
		sorted = sorted[:k]
	}
	return sorted
}
