// Package app orchestrates the full analysis pipeline: profile the
// dataset, map columns to roles, generate insights and resolve the
// dashboard template. Each stage is a pure function of its inputs, so a
// service instance can serve concurrent callers with no coordination.
package app

import (
	"context"
	"time"

	"insighto/domain/core"
	dash "insighto/domain/dashboard"
	domaininsight "insighto/domain/insight"
	"insighto/domain/profile"
	"insighto/domain/semantic"
	"insighto/domain/table"
	"insighto/internal"
	"insighto/internal/config"
	"insighto/internal/dashboard"
	"insighto/internal/insight"
	"insighto/internal/mapping"
	"insighto/internal/profiling"
	"insighto/ports"
)

// AnalysisResult bundles everything one run produces.
type AnalysisResult struct {
	ID              core.AnalysisID         `json:"id"`
	DatasetName     string                  `json:"dataset_name,omitempty"`
	RowCount        int                     `json:"row_count"`
	ColumnCount     int                     `json:"column_count"`
	Profiles        []profile.ColumnProfile `json:"profiles"`
	Mapping         semantic.FieldMapping   `json:"mapping"`
	Insights        []domaininsight.Insight `json:"insights"`
	KPIs            []domaininsight.KPI     `json:"kpis"`
	Recommendations []string                `json:"recommendations"`
	Charts          []dash.ChartSpec        `json:"charts,omitempty"`
	Elapsed         time.Duration           `json:"elapsed_ns"`
}

// AnalysisService wires the pipeline components together.
type AnalysisService struct {
	profiler  *profiling.Profiler
	mapper    *mapping.Mapper
	engine    *insight.Engine
	generator *dashboard.Generator
	rewriter  ports.Rewriter
	cfg       *config.Config
	log       *internal.Logger
}

// NewAnalysisService builds the pipeline from configuration. rewriter may
// be nil, which disables the rewriting pass.
func NewAnalysisService(cfg *config.Config, rewriter ports.Rewriter) *AnalysisService {
	return &AnalysisService{
		profiler: profiling.NewDefault(),
		mapper:   mapping.New(cfg.Mapping.AcceptanceThreshold),
		engine: insight.New(insight.Thresholds{
			NullRatio:      cfg.Insight.NullRatioThreshold,
			ZScore:         cfg.Insight.ZScoreThreshold,
			MinCorrelation: cfg.Insight.CorrelationThreshold,
		}),
		generator: dashboard.New(),
		rewriter:  rewriter,
		cfg:       cfg,
		log:       internal.DefaultLogger,
	}
}

// Analyze runs the full pipeline over one dataset. tmpl may be nil when
// no dashboard is wanted. The run always completes: mapping gaps and
// unresolvable panels surface as absences and Skipped entries, never as
// errors.
func (s *AnalysisService) Analyze(ctx context.Context, t *table.Table, tmpl *dash.Template, datasetName string) *AnalysisResult {
	started := time.Now()

	profiles := s.profiler.Profile(t)
	fieldMapping := s.mapper.Map(profiles)
	s.log.Info("mapped %d of %d roles for dataset %q",
		len(fieldMapping), len(semantic.AllRoles()), datasetName)

	rewrite := insight.RewriteOptions{
		Enabled:     s.cfg.Rewriter.Enabled && s.rewriter != nil,
		Rewriter:    s.rewriter,
		Timeout:     s.cfg.Rewriter.Timeout,
		DatasetName: datasetName,
	}
	insights := s.engine.Generate(ctx, t, profiles, fieldMapping, s.cfg.Insight.TopK, rewrite)

	result := &AnalysisResult{
		ID:              core.AnalysisID(core.NewID()),
		DatasetName:     datasetName,
		RowCount:        t.RowCount(),
		ColumnCount:     len(t.Columns),
		Profiles:        profiles,
		Mapping:         fieldMapping,
		Insights:        insights,
		KPIs:            insight.KPISummary(t, profiles),
		Recommendations: insight.Recommendations(insights),
	}
	if tmpl != nil {
		result.Charts = s.generator.Resolve(tmpl, fieldMapping, profiles, t)
	}
	result.Elapsed = time.Since(started)

	s.log.Info("analysis %s completed: %d insights, %d charts in %v",
		result.ID, len(result.Insights), len(result.Charts), result.Elapsed)
	return result
}
