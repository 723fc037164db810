// Package insight generates ranked textual findings from a profiled
// dataset. The engine is a fixed set of independent rule evaluators, each
// guarded by a mapping precondition; fired insights are pooled, sorted,
// deduplicated and truncated. An optional text-rewriting collaborator may
// polish the wording, but never changes which insights are selected or
// their order.
package insight

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"insighto/domain/insight"
	"insighto/domain/profile"
	"insighto/domain/semantic"
	"insighto/domain/table"
	"insighto/ports"
)

// Base priorities per rule family. Individual rules adjust these by
// magnitude before pooling.
const (
	priorityTrend       = 80
	priorityOutlier     = 75
	priorityTopN        = 70
	priorityCorrelation = 65
	priorityDataQuality = 40
)

// Thresholds configure the rule evaluators.
type Thresholds struct {
	NullRatio      float64 // data-quality fires above this missing share
	ZScore         float64 // outlier distance
	MinCorrelation float64 // minimum |r| before correlation fires
}

// DefaultThresholds returns the standard rule thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NullRatio:      0.10,
		ZScore:         3.0,
		MinCorrelation: 0.5,
	}
}

// RewriteOptions controls the optional external rewriting pass. A nil
// Rewriter or Enabled=false disables it entirely.
type RewriteOptions struct {
	Enabled     bool
	Rewriter    ports.Rewriter
	Timeout     time.Duration
	DatasetName string
	Concurrency int
}

// Engine evaluates the insight rules.
type Engine struct {
	thresholds Thresholds
}

// New creates an engine with the given thresholds.
func New(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

// NewDefault creates an engine with default thresholds.
func NewDefault() *Engine {
	return New(DefaultThresholds())
}

// Generate runs every rule evaluator, pools the results, sorts them by
// descending priority then confidence, deduplicates by category+subject,
// truncates to topK and optionally rewrites the surviving texts.
func (e *Engine) Generate(ctx context.Context, t *table.Table, profiles []profile.ColumnProfile, mapping semantic.FieldMapping, topK int, rewrite RewriteOptions) []insight.Insight {
	var pool []insight.Insight
	pool = append(pool, e.dataQualityRule(profiles)...)
	pool = append(pool, e.trendRule(t, mapping)...)
	pool = append(pool, e.topNRule(t, mapping)...)
	pool = append(pool, e.outlierRule(t, mapping)...)
	pool = append(pool, e.correlationRule(t, profiles, mapping)...)

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Priority != pool[j].Priority {
			return pool[i].Priority > pool[j].Priority
		}
		if pool[i].Confidence != pool[j].Confidence {
			return pool[i].Confidence > pool[j].Confidence
		}
		return pool[i].Subject < pool[j].Subject
	})

	seen := make(map[string]bool, len(pool))
	selected := make([]insight.Insight, 0, len(pool))
	for _, ins := range pool {
		key := string(ins.Category) + "|" + ins.Subject
		if seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, ins)
		if topK > 0 && len(selected) == topK {
			break
		}
	}

	if rewrite.Enabled && rewrite.Rewriter != nil {
		e.rewriteTexts(ctx, selected, rewrite)
	}
	return selected
}

// rewriteTexts polishes insight wording in place. Each call is bounded by
// its own timeout; any failure keeps the rule-generated text. Count,
// order and categories are untouched.
func (e *Engine) rewriteTexts(ctx context.Context, insights []insight.Insight, opts RewriteOptions) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4
	}

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i := range insights {
		i := i
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			text, err := opts.Rewriter.Rewrite(rctx, insights[i].Text, ports.RewriteContext{
				DatasetName: opts.DatasetName,
				Category:    string(insights[i].Category),
			})
			if err != nil {
				return nil // fallback: keep original text
			}
			if text = strings.TrimSpace(text); text != "" {
				insights[i].Text = text
			}
			return nil
		})
	}
	g.Wait()
}
