/*
aggregate.go - Read-only statistics over a store view

PURPOSE:
  The analytics pages of every module are derived on demand from the
  current collection: counts, means, ratios, group-by tallies, token
  frequencies and histograms. Nothing here is cached or persisted.

EMPTY INPUT:
  A statistic over zero records is undefined, not zero. Mean, MeanDecimal
  and Ratio return ok=false on empty input; Histogram returns nil.

USAGE:
  avg, ok := generic.Mean(reviews.All(), func(r Review) float64 { return float64(r.Score) })
  byPosition := generic.Tally(candidates.All(), func(c Candidate) string { return c.Position })
*/
package generic

import (
	"iter"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Bucket is one group of a Tally or TopTokens result.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Bin is one bar of a Histogram: values in [Lo, Hi), the last bin closed.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

func Count[T any](seq iter.Seq[T]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}

// Mean is the arithmetic mean of field, or ok=false for an empty view.
func Mean[T any](seq iter.Seq[T], field func(T) float64) (mean float64, ok bool) {
	var sum float64
	n := 0
	for rec := range seq {
		sum += field(rec)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// MeanDecimal is Mean for money fields. The result is rounded to 2 places.
func MeanDecimal[T any](seq iter.Seq[T], field func(T) decimal.Decimal) (mean decimal.Decimal, ok bool) {
	sum := decimal.Zero
	n := int64(0)
	for rec := range seq {
		sum = sum.Add(field(rec))
		n++
	}
	if n == 0 {
		return decimal.Zero, false
	}
	return sum.Div(decimal.NewFromInt(n)).Round(2), true
}

// Ratio is the share of records matching pred, or ok=false for an empty view.
func Ratio[T any](seq iter.Seq[T], pred func(T) bool) (ratio float64, ok bool) {
	hits, n := 0, 0
	for rec := range seq {
		if pred(rec) {
			hits++
		}
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(hits) / float64(n), true
}

// Tally counts records per key, most frequent first, ties by key.
func Tally[T any](seq iter.Seq[T], key func(T) string) []Bucket {
	counts := make(map[string]int)
	for rec := range seq {
		counts[key(rec)]++
	}
	return rank(counts, 0)
}

// TopTokens counts whitespace-separated, lower-cased tokens of a text field
// and returns the k most frequent. k <= 0 returns all of them.
func TopTokens[T any](seq iter.Seq[T], text func(T) string, k int) []Bucket {
	counts := make(map[string]int)
	for rec := range seq {
		for _, tok := range strings.Fields(strings.ToLower(text(rec))) {
			counts[tok]++
		}
	}
	return rank(counts, k)
}

// Histogram splits the range of field into bins equal-width bins.
func Histogram[T any](seq iter.Seq[T], field func(T) float64, bins int) []Bin {
	if bins <= 0 {
		return nil
	}
	var values []float64
	lo, hi := math.Inf(1), math.Inf(-1)
	for rec := range seq {
		v := field(rec)
		values = append(values, v)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		return nil
	}

	width := (hi - lo) / float64(bins)
	if width == 0 {
		// All values equal: a single bin holds them.
		return []Bin{{Lo: lo, Hi: hi, Count: len(values)}}
	}

	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = lo + float64(i)*width
		out[i].Hi = lo + float64(i+1)*width
	}
	out[bins-1].Hi = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

func rank(counts map[string]int, k int) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for key, n := range counts {
		out = append(out, Bucket{Key: key, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
