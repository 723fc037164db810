package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"insighto/app"
	"insighto/domain/semantic"
)

// RenderMarkdownReport formats one analysis result as a markdown
// document: mapping table, ranked insights, KPIs and chart summaries.
func RenderMarkdownReport(result *app.AnalysisResult) string {
	var b strings.Builder

	name := result.DatasetName
	if name == "" {
		name = "dataset"
	}
	fmt.Fprintf(&b, "# Analysis of %s\n\n", name)
	fmt.Fprintf(&b, "%d rows, %d columns.\n\n", result.RowCount, result.ColumnCount)

	b.WriteString("## Field mapping\n\n")
	if len(result.Mapping) == 0 {
		b.WriteString("No roles could be mapped with sufficient confidence.\n\n")
	} else {
		b.WriteString("| Role | Column | Confidence | Matched by |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, role := range sortedRoles(result) {
			binding := result.Mapping[role]
			fmt.Fprintf(&b, "| %s | %s | %.2f | %s |\n",
				role, binding.Column, binding.Confidence, binding.MatchedBy)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Insights\n\n")
	if len(result.Insights) == 0 {
		b.WriteString("No insights fired for this dataset.\n\n")
	}
	for _, ins := range result.Insights {
		fmt.Fprintf(&b, "- **[%s]** %s\n", ins.Category, ins.Text)
	}
	b.WriteString("\n")

	if len(result.KPIs) > 0 {
		b.WriteString("## Key figures\n\n")
		for _, kpi := range result.KPIs {
			fmt.Fprintf(&b, "- %s: sum %.2f, avg %.2f, min %.2f, max %.2f\n",
				kpi.Column, kpi.Sum, kpi.Avg, kpi.Min, kpi.Max)
		}
		b.WriteString("\n")
	}

	if len(result.Charts) > 0 {
		b.WriteString("## Charts\n\n")
		for _, chart := range result.Charts {
			if chart.Skipped {
				missing := make([]string, len(chart.MissingRoles))
				for i, role := range chart.MissingRoles {
					missing[i] = string(role)
				}
				fmt.Fprintf(&b, "- %s (%s): skipped, missing %s\n",
					chart.ID, chart.ChartType, strings.Join(missing, ", "))
				continue
			}
			fmt.Fprintf(&b, "- %s (%s): %s, %d points\n",
				chart.ID, chart.ChartType, chart.Title, len(chart.Series))
		}
		b.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	return b.String()
}

// RenderHTMLReport converts the markdown report to HTML.
func RenderHTMLReport(result *app.AnalysisResult) []byte {
	doc := RenderMarkdownReport(result)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
		Title: "Analysis report",
	})
	return markdown.ToHTML([]byte(doc), p, renderer)
}

func sortedRoles(result *app.AnalysisResult) []semantic.Role {
	roles := make([]semantic.Role, 0, len(result.Mapping))
	for role := range result.Mapping {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
