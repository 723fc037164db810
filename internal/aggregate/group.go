package aggregate

import (
	"math"
	"sort"
	"strconv"
)

// Aggregation kinds applied per category group.
const (
	OpSum   = "sum"
	OpCount = "count"
	OpAvg   = "avg"
)

// GroupBy aggregates values per category label with the given operation.
// Sum and avg use absolute values, matching the dashboard convention that
// categorical breakdowns show magnitudes regardless of sign. The result is
// ordered by descending value, ties broken by ascending label.
func GroupBy(categories []string, values []float64, op string) []Bucket {
	n := len(categories)
	if len(values) < n {
		n = len(values)
	}
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := 0; i < n; i++ {
		if categories[i] == "" {
			continue
		}
		sums[categories[i]] += math.Abs(values[i])
		counts[categories[i]]++
	}

	buckets := make([]Bucket, 0, len(sums))
	for key, sum := range sums {
		var v float64
		switch op {
		case OpCount:
			v = float64(counts[key])
		case OpAvg:
			v = sum / float64(counts[key])
		default:
			v = sum
		}
		buckets = append(buckets, Bucket{Key: key, Value: v})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Value != buckets[j].Value {
			return buckets[i].Value > buckets[j].Value
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// Total sums bucket values.
func Total(buckets []Bucket) float64 {
	var total float64
	for _, b := range buckets {
		total += b.Value
	}
	return total
}

// Histogram bins numeric values into equal-width buckets labelled by the
// bin's lower bound.
func Histogram(values []float64, bins int) []Bucket {
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	width := (max - min) / float64(bins)
	if width == 0 {
		return []Bucket{{Key: formatFloat(min), Value: float64(len(values))}}
	}
	counts := make([]float64, bins)
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	buckets := make([]Bucket, bins)
	for i := range counts {
		buckets[i] = Bucket{Key: formatFloat(min + float64(i)*width), Value: counts[i]}
	}
	return buckets
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
