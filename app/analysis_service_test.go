package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dash "insighto/domain/dashboard"
	"insighto/domain/semantic"
	"insighto/domain/table"
	"insighto/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Mapping: config.MappingConfig{AcceptanceThreshold: 0.5},
		Insight: config.InsightConfig{
			TopK:                 10,
			NullRatioThreshold:   0.10,
			ZScoreThreshold:      3.0,
			CorrelationThreshold: 0.5,
		},
		Rewriter: config.RewriterConfig{Enabled: false, Timeout: time.Second},
	}
}

// transactionTable is a year of synthetic card transactions with a
// recognizable header, a rising monthly total and one extreme value.
func transactionTable() *table.Table {
	t := table.New([]string{"txn_date", "amt", "merchant_category"})
	categories := []string{"groceries", "fuel", "rent", "dining"}
	for month := 1; month <= 12; month++ {
		for i := 0; i < 2; i++ {
			t.Append(table.Row{
				"txn_date":          fmt.Sprintf("2024-%02d-%02d", month, 10+i*10),
				"amt":               fmt.Sprintf("%d.%02d", 40+month*5+i, 25+i),
				"merchant_category": categories[(month+i)%len(categories)],
			})
		}
	}
	t.Append(table.Row{
		"txn_date":          "2024-12-28",
		"amt":               "9999.99",
		"merchant_category": "travel",
	})
	return t
}

func TestAnalyze_EndToEnd(t *testing.T) {
	service := NewAnalysisService(testConfig(), nil)
	result := service.Analyze(context.Background(), transactionTable(), dash.DefaultTemplate(), "txns.csv")

	require.NotNil(t, result)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "txns.csv", result.DatasetName)
	assert.Equal(t, 25, result.RowCount)
	assert.Equal(t, 3, result.ColumnCount)
	require.Len(t, result.Profiles, 3)

	// The recognizable header binds three of the six roles.
	for _, role := range []semantic.Role{semantic.RoleDate, semantic.RoleAmount, semantic.RoleCategory} {
		binding, ok := result.Mapping[role]
		require.True(t, ok, "role %s should be mapped", role)
		assert.GreaterOrEqual(t, binding.Confidence, 0.5)
	}
	assert.Equal(t, "txn_date", result.Mapping[semantic.RoleDate].Column)
	assert.Equal(t, "amt", result.Mapping[semantic.RoleAmount].Column)
	assert.Equal(t, "merchant_category", result.Mapping[semantic.RoleCategory].Column)

	require.NotEmpty(t, result.Insights)
	assert.LessOrEqual(t, len(result.Insights), 10)
	for i := 1; i < len(result.Insights); i++ {
		assert.GreaterOrEqual(t, result.Insights[i-1].Priority, result.Insights[i].Priority)
	}

	require.Len(t, result.KPIs, 1)
	assert.Equal(t, "amt", result.KPIs[0].Column)
	assert.NotEmpty(t, result.Recommendations)
	assert.Greater(t, result.Elapsed, time.Duration(0))
}

func TestAnalyze_ChartsFollowTemplate(t *testing.T) {
	service := NewAnalysisService(testConfig(), nil)
	result := service.Analyze(context.Background(), transactionTable(), dash.DefaultTemplate(), "txns.csv")

	require.Len(t, result.Charts, 4)
	assert.Equal(t, "total", result.Charts[0].ID)
	assert.False(t, result.Charts[0].Skipped)
	assert.False(t, result.Charts[1].Skipped, "date+amount are mapped, over-time must resolve")
	assert.False(t, result.Charts[2].Skipped, "category+amount are mapped, by-category must resolve")

	byAccount := result.Charts[3]
	assert.True(t, byAccount.Skipped, "no account column exists in the dataset")
	assert.Equal(t, []semantic.Role{semantic.RoleAccount}, byAccount.MissingRoles)
}

func TestAnalyze_NilTemplate(t *testing.T) {
	service := NewAnalysisService(testConfig(), nil)
	result := service.Analyze(context.Background(), transactionTable(), nil, "txns.csv")

	require.NotNil(t, result)
	assert.Empty(t, result.Charts)
	assert.NotEmpty(t, result.Insights)
}

func TestAnalyze_UnmappableDatasetStillCompletes(t *testing.T) {
	tbl := table.New([]string{"xqz1", "xqz2"})
	for i := 0; i < 5; i++ {
		tbl.Append(table.Row{
			"xqz1": fmt.Sprintf("blob-%d", i),
			"xqz2": fmt.Sprintf("chunk-%d", i),
		})
	}

	service := NewAnalysisService(testConfig(), nil)
	result := service.Analyze(context.Background(), tbl, dash.DefaultTemplate(), "opaque.csv")

	require.NotNil(t, result)
	assert.Empty(t, result.Mapping)
	require.Len(t, result.Charts, 4)
	for _, chart := range result.Charts {
		assert.True(t, chart.Skipped, "chart %s should be skipped with nothing mapped", chart.ID)
		assert.NotEmpty(t, chart.MissingRoles)
	}
}
