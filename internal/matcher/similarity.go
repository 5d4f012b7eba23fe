package matcher

import (
	"fmt"
	"math"

	"github.com/ludo-technologies/treediff/internal/tree"
)

// SimilarityFn scores two subtrees from the mappings of their descendants
type SimilarityFn func(src, dst *tree.Node, m *MappingStore) float64

// SimilarityFunc returns the coefficient for metric. The empty metric
// selects dice.
func SimilarityFunc(metric SimilarityMetric) (SimilarityFn, error) {
	switch metric {
	case SimilarityDice, "":
		return DiceSimilarity, nil
	case SimilarityJaccard:
		return JaccardSimilarity, nil
	case SimilarityChawathe:
		return ChawatheSimilarity, nil
	case SimilarityOverlap:
		return OverlapSimilarity, nil
	default:
		return nil, fmt.Errorf("%s must be one of dice, jaccard, chawathe, overlap, got %q", KeySimilarity, metric)
	}
}

// NumberOfMappedDescendants counts the descendants of src mapped to a
// descendant of dst
func NumberOfMappedDescendants(src, dst *tree.Node, m *MappingStore) int {
	dstDescendants := make(map[*tree.Node]struct{}, dst.Size())
	for _, d := range dst.Descendants() {
		dstDescendants[d] = struct{}{}
	}
	common := 0
	for _, s := range src.Descendants() {
		d := m.Dst(s)
		if d == nil {
			continue
		}
		if _, ok := dstDescendants[d]; ok {
			common++
		}
	}
	return common
}

// DiceSimilarity is 2·common / (|desc(src)| + |desc(dst)|)
func DiceSimilarity(src, dst *tree.Node, m *MappingStore) float64 {
	common := float64(NumberOfMappedDescendants(src, dst, m))
	return DiceCoefficient(common, float64(src.Size()-1), float64(dst.Size()-1))
}

// JaccardSimilarity is common / (|desc(src)| + |desc(dst)| − common)
func JaccardSimilarity(src, dst *tree.Node, m *MappingStore) float64 {
	common := float64(NumberOfMappedDescendants(src, dst, m))
	return JaccardIndex(common, float64(src.Size()-1), float64(dst.Size()-1))
}

// ChawatheSimilarity is common / max(|desc(src)|, |desc(dst)|)
func ChawatheSimilarity(src, dst *tree.Node, m *MappingStore) float64 {
	maxDesc := math.Max(float64(src.Size()-1), float64(dst.Size()-1))
	if maxDesc == 0 {
		return 0
	}
	return float64(NumberOfMappedDescendants(src, dst, m)) / maxDesc
}

// OverlapSimilarity is common / min(|desc(src)|, |desc(dst)|)
func OverlapSimilarity(src, dst *tree.Node, m *MappingStore) float64 {
	minDesc := math.Min(float64(src.Size()-1), float64(dst.Size()-1))
	if minDesc == 0 {
		return 0
	}
	return float64(NumberOfMappedDescendants(src, dst, m)) / minDesc
}

// DiceCoefficient computes 2·common / (left + right)
func DiceCoefficient(common, left, right float64) float64 {
	if left+right == 0 {
		return 0
	}
	return 2 * common / (left + right)
}

// JaccardIndex computes common / (left + right − common)
func JaccardIndex(common, left, right float64) float64 {
	denom := left + right - common
	if denom == 0 {
		return 0
	}
	return common / denom
}

// AdaptiveThreshold decays with the combined number of descendants
func AdaptiveThreshold(src, dst *tree.Node) float64 {
	return 1.0 / (1.0 + math.Log(float64(src.Size()-1+dst.Size()-1)))
}
