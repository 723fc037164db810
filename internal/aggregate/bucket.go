// Package aggregate provides the grouping and time-bucketing primitives
// shared by the insight engine and the dashboard generator, so trend
// insights and time-series panels bucket identically.
package aggregate

import (
	"sort"
	"time"
)

// Granularity is the time bucket width chosen from a date range.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// ChooseGranularity picks a bucket width from the dataset's date span:
// under 90 days buckets are daily, under two years monthly, else yearly.
func ChooseGranularity(min, max time.Time) Granularity {
	span := max.Sub(min)
	switch {
	case span < 90*24*time.Hour:
		return GranularityDaily
	case span < 2*365*24*time.Hour:
		return GranularityMonthly
	default:
		return GranularityYearly
	}
}

// BucketKey renders the bucket label for a timestamp at a granularity.
// Labels sort lexicographically in chronological order.
func BucketKey(t time.Time, g Granularity) string {
	switch g {
	case GranularityDaily:
		return t.Format("2006-01-02")
	case GranularityMonthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006")
	}
}

// Bucket is one aggregated group, keyed by bucket label or category.
type Bucket struct {
	Key   string
	Value float64
}

// TimeBucketSum sums values into time buckets and returns them in
// chronological order. Pairs where the date is zero are skipped.
func TimeBucketSum(dates []time.Time, values []float64, g Granularity) []Bucket {
	n := len(dates)
	if len(values) < n {
		n = len(values)
	}
	sums := make(map[string]float64)
	for i := 0; i < n; i++ {
		if dates[i].IsZero() {
			continue
		}
		sums[BucketKey(dates[i], g)] += values[i]
	}
	return sortedByKey(sums)
}

// DateRange returns the min and max of a set of timestamps, ignoring
// zero values. ok is false when no usable timestamp exists.
func DateRange(dates []time.Time) (min, max time.Time, ok bool) {
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if !ok || d.Before(min) {
			min = d
		}
		if !ok || d.After(max) {
			max = d
		}
		ok = true
	}
	return min, max, ok
}

func sortedByKey(groups map[string]float64) []Bucket {
	buckets := make([]Bucket, 0, len(groups))
	for k, v := range groups {
		buckets = append(buckets, Bucket{Key: k, Value: v})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets
}
